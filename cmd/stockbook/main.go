package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"stockbook/internal/config"
	"stockbook/internal/console"
	"stockbook/internal/inventory"
	"stockbook/internal/storage"
	"stockbook/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", cfg.FeedPath, "feed csv path")
		_ = fs.Parse(os.Args[2:])
		svc := inventory.NewImportService(db, cfg)
		summary, err := svc.ImportFile(*file)
		must(err)
		fmt.Printf("import complete created=%d overwritten=%d discarded=%d skipped=%d\n",
			summary.Created, summary.Overwritten, summary.Discarded, len(summary.Skipped))
		for _, skipped := range summary.Skipped {
			fmt.Printf("  skipped line %d: %s\n", skipped.LineNo, skipped.Reason)
		}
	case "item:view":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "item id")
		_ = fs.Parse(os.Args[2:])
		if *id == 0 {
			must(fmt.Errorf("--id is required"))
		}
		item, err := db.GetItemByID(*id)
		must(err)
		if item == nil {
			fmt.Printf("no matching item with ID '%d'\n", *id)
			return
		}
		fmt.Printf("ID: %d  Name: %s  Quantity: %d  Price: %s  Date Updated: %s\n",
			item.ID, item.Name, item.Quantity, inventory.FormatCents(item.PriceCents), item.UpdatedAt.Format("January 2, 2006"))
	case "item:add":
		c := console.New(db, cfg, os.Stdin, os.Stdout)
		must(c.AddItem())
	case "backup:csv":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "backup.csv"), "output csv path")
		_ = fs.Parse(os.Args[2:])
		rows, err := inventory.Snapshot(db)
		must(err)
		must(inventory.WriteCSV(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "backup:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "backup.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		rows, err := inventory.Snapshot(db)
		must(err)
		must(inventory.WriteXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "watch":
		svc := watcher.NewService(db, cfg)
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		must(svc.Run(ctx))
	case "menu":
		// Reconcile the feed when one is present, then hand control to
		// the menu.
		if _, err := os.Stat(cfg.FeedPath); err == nil {
			svc := inventory.NewImportService(db, cfg)
			summary, err := svc.ImportFile(cfg.FeedPath)
			must(err)
			fmt.Printf("feed reconciled created=%d overwritten=%d discarded=%d skipped=%d\n",
				summary.Created, summary.Overwritten, summary.Discarded, len(summary.Skipped))
		}
		c := console.New(db, cfg, os.Stdin, os.Stdout)
		must(c.Run())
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: stockbook <command>")
	fmt.Println("commands:")
	fmt.Println("  import --file=./inventory.csv")
	fmt.Println("  item:view --id=1")
	fmt.Println("  item:add")
	fmt.Println("  backup:csv --out=./out/backup.csv")
	fmt.Println("  backup:xlsx --out=./out/backup.xlsx")
	fmt.Println("  watch")
	fmt.Println("  menu")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
