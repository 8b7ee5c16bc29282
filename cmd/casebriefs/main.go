// Package main provides the entry point for the case brief manager.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/pflag"

	"github.com/BennyWestsyde/Case-Briefs/internal/briefs"
	"github.com/BennyWestsyde/Case-Briefs/internal/compile"
	"github.com/BennyWestsyde/Case-Briefs/internal/config"
	"github.com/BennyWestsyde/Case-Briefs/internal/di"
	"github.com/BennyWestsyde/Case-Briefs/internal/di/providers"
	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
	"github.com/BennyWestsyde/Case-Briefs/internal/logger"
	"github.com/BennyWestsyde/Case-Briefs/internal/watcher"
)

const usage = `Usage: casebriefs <command> [flags]

Commands:
  list                      list all briefs by label
  show <label>              print one brief
  import-tex                rebuild the database from the cases directory
  export [-o file]          dump the database to a SQL file
  restore <file>            load a SQL dump into the database
  compile <label> [--all]   typeset brief documents to PDF
  add-course <name>         register a course
  remove-course <name>      remove an unused course
  list-courses              list registered courses
  watch                     reload automatically on document changes
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	injector := di.NewContainer()
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := os.Args[1], os.Args[2:]
	if err := run(ctx, injector, command, args); err != nil {
		log.WithError(err).Error(command + " failed")
		_ = injector.Shutdown()
		os.Exit(1)
	}

	if err := injector.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func run(ctx context.Context, injector do.Injector, command string, args []string) error {
	switch command {
	case "list":
		return runList(injector)
	case "show":
		return runShow(injector, args)
	case "import-tex":
		return runImportTex(ctx, injector)
	case "export":
		return runExport(ctx, injector, args)
	case "restore":
		return runRestore(ctx, injector, args)
	case "compile":
		return runCompile(ctx, injector, args)
	case "add-course":
		return runAddCourse(ctx, injector, args)
	case "remove-course":
		return runRemoveCourse(ctx, injector, args)
	case "list-courses":
		return runListCourses(ctx, injector)
	case "watch":
		return runWatch(ctx, injector)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runList(injector do.Injector) error {
	collection := do.MustInvoke[*briefs.Collection](injector)

	list := collection.List()
	if len(list) == 0 {
		fmt.Println("no briefs")
		return nil
	}
	for _, b := range list {
		fmt.Printf("%-30s %s (%s)\n", b.Label, b.Title(), b.Course)
	}
	return nil
}

func runShow(injector do.Injector, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: casebriefs show <label>")
	}
	collection := do.MustInvoke[*briefs.Collection](injector)

	b, err := collection.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n\n", b.Title(), b.Citation)
	fmt.Printf("Course:    %s\n", b.Course)
	fmt.Printf("Subjects:  %s\n\n", strings.Join(b.SubjectNames(), ", "))
	for _, section := range []struct{ name, text string }{
		{"Facts", b.Facts},
		{"Procedure", b.Procedure},
		{"Issue", b.Issue},
		{"Holding", b.Holding},
		{"Principle", b.Principle},
		{"Reasoning", b.Reasoning},
		{"Notes", b.Notes},
	} {
		fmt.Printf("%s:\n  %s\n\n", section.name, section.text)
	}
	for _, op := range b.Opinions {
		fmt.Printf("Opinion (%s):\n  %s\n\n", op.Author, op.Text)
	}
	return nil
}

func runImportTex(ctx context.Context, injector do.Injector) error {
	collection := do.MustInvoke[*briefs.Collection](injector)
	st := do.MustInvoke[*providers.StoreHandle](injector)

	if err := collection.ReloadFromDocuments(ctx); err != nil {
		return err
	}

	// The reload only fills the working set; persist it explicitly,
	// registering courses the store has not seen yet.
	for _, b := range collection.List() {
		if err := st.AddCourse(ctx, b.Course); err != nil && !errors.Is(err, errors.ErrIntegrityViolation) {
			return fmt.Errorf("register course %s: %w", b.Course, err)
		}
		if err := st.SaveBrief(ctx, b); err != nil {
			return fmt.Errorf("save brief %s: %w", b.Label, err)
		}
	}

	fmt.Printf("imported %d briefs\n", collection.Len())
	return nil
}

func runExport(ctx context.Context, injector do.Injector, args []string) error {
	cfg := do.MustInvoke[*config.Config](injector)
	st := do.MustInvoke[*providers.StoreHandle](injector)

	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	out := flags.StringP("out", "o", cfg.Documents.ExportPath, "dump file to write")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := st.ExportDumpFile(ctx, *out); err != nil {
		return err
	}
	fmt.Printf("exported database to %s\n", *out)
	return nil
}

func runRestore(ctx context.Context, injector do.Injector, args []string) error {
	cfg := do.MustInvoke[*config.Config](injector)
	st := do.MustInvoke[*providers.StoreHandle](injector)
	collection := do.MustInvoke[*briefs.Collection](injector)

	path := cfg.Documents.ExportPath
	if len(args) > 0 {
		path = args[0]
	}

	if err := st.RestoreDumpFile(ctx, path); err != nil {
		return err
	}
	if err := collection.ReloadFromStore(ctx); err != nil {
		return err
	}
	fmt.Printf("restored %d briefs from %s\n", collection.Len(), path)
	return nil
}

func runCompile(ctx context.Context, injector do.Injector, args []string) error {
	flags := pflag.NewFlagSet("compile", pflag.ContinueOnError)
	all := flags.Bool("all", false, "compile every brief")
	if err := flags.Parse(args); err != nil {
		return err
	}

	collection := do.MustInvoke[*briefs.Collection](injector)
	compiler, err := do.Invoke[compile.Compiler](injector)
	if err != nil {
		return err
	}

	var targets []string
	switch {
	case *all:
		targets = collection.Labels()
	case flags.NArg() == 1:
		targets = flags.Args()
	default:
		return fmt.Errorf("usage: casebriefs compile <label> | compile --all")
	}

	for _, label := range targets {
		b, err := collection.Get(label)
		if err != nil {
			return err
		}
		pdf, output, err := compiler.Compile(ctx, collection.DocumentPath(b))
		if err != nil {
			fmt.Fprintln(os.Stderr, output)
			return err
		}
		fmt.Printf("compiled %s -> %s\n", label, pdf)
	}
	return nil
}

func runAddCourse(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: casebriefs add-course <name>")
	}
	st := do.MustInvoke[*providers.StoreHandle](injector)

	if err := st.AddCourse(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("added course %s\n", args[0])
	return nil
}

func runRemoveCourse(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: casebriefs remove-course <name>")
	}
	st := do.MustInvoke[*providers.StoreHandle](injector)

	count, err := st.CountCourseUsage(ctx, args[0])
	if err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("course %s is referenced by %d briefs; not removed\n", args[0], count)
		return nil
	}
	if err := st.RemoveCourse(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("removed course %s\n", args[0])
	return nil
}

func runListCourses(ctx context.Context, injector do.Injector) error {
	st := do.MustInvoke[*providers.StoreHandle](injector)

	names, err := st.ListCourseNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runWatch(ctx context.Context, injector do.Injector) error {
	w, err := do.Invoke[*watcher.Watcher](injector)
	if err != nil {
		return err
	}

	fmt.Println("watching for document changes; Ctrl-C to stop")
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
