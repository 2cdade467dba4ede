// Command innerflow is a CLI over the journaling sync layer: entries
// are written locally first and mirrored to the remote store in the
// background when one is configured.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/annemirova/innerflow/internal/config"
	"github.com/annemirova/innerflow/internal/identity"
	"github.com/annemirova/innerflow/internal/insight"
	"github.com/annemirova/innerflow/internal/localstore"
	"github.com/annemirova/innerflow/internal/logging"
	"github.com/annemirova/innerflow/internal/model"
	"github.com/annemirova/innerflow/internal/repository/postgres"
	"github.com/annemirova/innerflow/internal/service"
	"github.com/annemirova/innerflow/internal/testdata"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `innerflow CLI
Usage:
  innerflow <cmd> [args]

Commands:
  version
  whoami                                   (print the persisted user id, creating one if needed)
  save     -achievements "a;b" -happiness "x;y" -drainer none|low|high
           [-drainer-note s] [-mit s] [-done] [-reason s] [-tomorrow s] [-date YYYY-MM-DD]
  today
  day      -offset <n>                     (0 today, -1 yesterday)
  list
  stats
  migrate                                  (upload all local entries to the remote store)
  seed     [-days n]                       (generate sample entries if the store is empty)
  insight  -id <entry-id>
  reset                                    (clear local entries and identity)
`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// main dispatches subcommands against a journal wired from the
// environment.
func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	logger := logging.New(true, cfg.LogFile)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	local := localstore.New(cfg.DataDir, logger)
	ids := identity.New(cfg.DataDir, cfg.LockPollInterval, cfg.LockWaitTimeout, logger)
	opts := []service.Option{
		service.WithSyncTimeout(cfg.SyncTimeout),
		service.WithGenerator(insight.NewClient(cfg.AnthropicAPIKey, cfg.InsightModel, logger)),
	}
	if cfg.RemoteConfigured() {
		if db, err := postgres.New(ctx, cfg.DatabaseURL); err == nil {
			defer db.Close()
			opts = append(opts,
				service.WithRemote(postgres.NewEntryRepo(db)),
				service.WithInsightStore(postgres.NewInsightRepo(db)),
			)
		}
	}
	svc := service.NewJournal(local, ids, logger, opts...)
	// Let background mirrors finish before the process exits.
	defer svc.Wait()

	switch cmd {

	case "version":
		fmt.Printf("innerflow %s (%s)\n", version, buildDate)

	case "whoami":
		fmt.Println(ids.GetOrCreate())

	case "save":
		fs := flag.NewFlagSet("save", flag.ExitOnError)
		achievements := fs.String("achievements", "", "semicolon-separated, up to 3")
		happiness := fs.String("happiness", "", "semicolon-separated, up to 3")
		drainer := fs.String("drainer", "none", "none|low|high")
		drainerNote := fs.String("drainer-note", "", "what drained you")
		mit := fs.String("mit", "", "today's most important task")
		done := fs.Bool("done", false, "MIT completed")
		reason := fs.String("reason", "", "why the MIT was not completed")
		tomorrow := fs.String("tomorrow", "", "tomorrow's priority")
		date := fs.String("date", "", "YYYY-MM-DD (default today)")
		_ = fs.Parse(args)

		day := time.Now().UTC()
		if *date != "" {
			day, err = time.Parse("2006-01-02", *date)
			if err != nil {
				fail(fmt.Errorf("bad -date: %w", err))
			}
		}

		e := model.Entry{
			ID:                  model.NewEntryID(),
			Date:                day,
			Timestamp:           time.Now().UnixMilli(),
			Achievements:        splitSlots(*achievements),
			Happiness:           splitSlots(*happiness),
			DrainerLevel:        model.DrainerLevel(*drainer),
			DrainerNote:         *drainerNote,
			TodayMITDescription: *mit,
			MITCompleted:        *done,
			MITReason:           *reason,
			TomorrowMIT:         *tomorrow,
		}
		if err := svc.Save(ctx, e); err != nil {
			fail(err)
		}
		printJSON(e)

	case "today":
		e, ok := svc.GetToday(ctx)
		if !ok {
			fmt.Println("no entry for today")
			return
		}
		printJSON(e)

	case "day":
		fs := flag.NewFlagSet("day", flag.ExitOnError)
		offset := fs.Int("offset", 0, "days from today")
		_ = fs.Parse(args)
		e, ok := svc.GetByRelativeDay(ctx, *offset)
		if !ok {
			fmt.Println("no entry for that day")
			return
		}
		printJSON(e)

	case "list":
		printJSON(svc.GetAll(ctx))

	case "stats":
		printJSON(map[string]int{"recordedDays": svc.CountRecordedDays(ctx)})

	case "migrate":
		printJSON(svc.MigrateLocalToRemote(ctx))

	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		days := fs.Int("days", 25, "days of sample data")
		_ = fs.Parse(args)
		n, err := testdata.Seed(local, *days)
		if err != nil {
			fail(err)
		}
		fmt.Printf("seeded %d entries\n", n)

	case "insight":
		fs := flag.NewFlagSet("insight", flag.ExitOnError)
		id := fs.String("id", "", "entry id")
		_ = fs.Parse(args)
		if *id == "" {
			fail(errors.New("need -id"))
		}
		e, err := svc.AttachInsight(ctx, *id)
		if err != nil {
			fail(err)
		}
		printJSON(e)

	case "reset":
		if err := svc.Reset(); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

// splitSlots turns "a;b" into the fixed 3-slot list, blank-padded.
func splitSlots(s string) []string {
	slots := make([]string, model.SlotCount)
	if s == "" {
		return slots
	}
	for i, p := range strings.Split(s, ";") {
		if i >= model.SlotCount {
			break
		}
		slots[i] = strings.TrimSpace(p)
	}
	return slots
}
