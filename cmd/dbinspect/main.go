// Command dbinspect prints a summary of a case brief database: row counts,
// courses, subjects, and per-brief association counts. Read-only.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/BennyWestsyde/Case-Briefs/internal/config"
	"github.com/BennyWestsyde/Case-Briefs/internal/logger"
	"github.com/BennyWestsyde/Case-Briefs/internal/store"
)

func main() {
	flags := pflag.NewFlagSet("dbinspect", pflag.ExitOnError)
	dbPath := flags.String("db", "", "database file (defaults to configured path)")
	_ = flags.Parse(os.Args[1:])

	log := logger.New(logger.Config{
		Writer:      os.Stderr,
		Level:       logger.ParseLevel("warn"),
		Environment: "development",
	})

	if *dbPath == "" {
		cfg, err := config.Load(".env")
		if err != nil {
			log.WithError(err).Fatal("load config")
		}
		*dbPath = cfg.Store.Path
	}

	if _, err := os.Stat(*dbPath); err != nil {
		log.Fatal("database not found", "path", *dbPath)
	}

	st, _, err := store.Open(*dbPath, log.Logger, store.Options{})
	if err != nil {
		log.Fatalf("open database %s: %v", *dbPath, err)
	}
	defer st.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	labels, err := st.ListLabels(ctx)
	if err != nil {
		log.Fatalf("list briefs: %v", err)
	}
	courses, err := st.ListCourseNames(ctx)
	if err != nil {
		log.Fatalf("list courses: %v", err)
	}
	subjects, err := st.ListSubjectNames(ctx)
	if err != nil {
		log.Fatalf("list subjects: %v", err)
	}

	fmt.Printf("Briefs:   %d\n", len(labels))
	fmt.Printf("Courses:  %d\n", len(courses))
	fmt.Printf("Subjects: %d\n", len(subjects))
	fmt.Println()

	for _, course := range courses {
		count, err := st.CountCourseUsage(ctx, course)
		if err != nil {
			log.Fatalf("count usage for %s: %v", course, err)
		}
		fmt.Printf("  %-20s %d briefs\n", course, count)
	}
	fmt.Println()

	for _, label := range labels {
		b, err := st.LoadBrief(ctx, label)
		if err != nil {
			log.Fatalf("load %s: %v", label, err)
		}
		fmt.Printf("  %-30s %-40s subjects=%d opinions=%d\n",
			label, b.Title(), len(b.Subjects), len(b.Opinions))
	}
}
