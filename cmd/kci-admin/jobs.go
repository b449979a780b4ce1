package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/kernelci/backend-go/internal/bootstrap"
	"github.com/kernelci/backend-go/internal/data"
	"github.com/kernelci/backend-go/internal/domain/model"
	"github.com/kernelci/backend-go/internal/service"
)

const importLineLimit = 4 * 1024 * 1024

// newJobService connects the store and cache and assembles the job service.
// The returned cleanup must be called once the command is done.
func newJobService(cmd *commandContext) (*service.JobService, func(), error) {
	client, db, err := bootstrap.NewMongoDatabase(cmd.Ctx, &cmd.Config.Mongo, cmd.Logger)
	if err != nil {
		return nil, nil, err
	}

	cacheClient := bootstrap.NewCacheClient(&cmd.Config.Cache)
	cleanup := func() {
		if cacheClient != nil {
			if cerr := cacheClient.Close(); cerr != nil {
				cmd.Logger.ErrorContext(cmd.Ctx, "close cache client failed", "error", cerr)
			}
		}
		if derr := client.Disconnect(cmd.Ctx); derr != nil {
			cmd.Logger.ErrorContext(cmd.Ctx, "disconnect document store failed", "error", derr)
		}
	}

	opts := service.JobServiceOptions{
		Repo:     data.NewJobRepo(db, cmd.Logger),
		CacheTTL: cmd.Config.Cache.JobTTL,
		Logger:   cmd.Logger,
	}
	if cacheClient != nil {
		opts.Cache = data.NewRedisCacheRepo(cacheClient)
	}

	svc, err := service.NewJobService(opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func runJobGet(cmd *commandContext, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: kci-admin get <job-kernel>")
	}

	svc, cleanup, err := newJobService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := svc.Get(cmd.Ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	raw, err := bson.MarshalExtJSON(doc.ToMap(), false, false)
	if err != nil {
		return fmt.Errorf("encode job %q: %w", doc.ID, err)
	}
	return writef(os.Stdout, "%s\n", raw)
}

func runJobExport(cmd *commandContext, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath expression applied to each document")
	limit := fs.Int64("limit", 0, "maximum number of documents to export (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query != "" {
		if _, err := jmespath.Compile(*query); err != nil {
			return fmt.Errorf("invalid --query expression: %w", err)
		}
	}

	svc, cleanup, err := newJobService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	docs, err := svc.List(cmd.Ctx, *limit)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	for _, doc := range docs {
		line, lerr := exportLine(doc, *query)
		if lerr != nil {
			return lerr
		}
		if _, werr := w.Write(append(line, '\n')); werr != nil {
			return fmt.Errorf("write export line: %w", werr)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush export output: %w", err)
	}

	cmd.Logger.InfoContext(cmd.Ctx, "export finished", "documents", len(docs))
	return nil
}

// exportLine renders one document, either whole as extended JSON or projected
// through the JMESPath query as plain JSON.
func exportLine(doc *model.JobDocument, query string) ([]byte, error) {
	m := doc.ToMap()
	if query == "" {
		raw, err := bson.MarshalExtJSON(m, false, false)
		if err != nil {
			return nil, fmt.Errorf("encode job %q: %w", doc.ID, err)
		}
		return raw, nil
	}

	projected, err := jmespath.Search(query, m)
	if err != nil {
		return nil, fmt.Errorf("project job %q: %w", doc.ID, err)
	}
	raw, err := json.Marshal(projected)
	if err != nil {
		return nil, fmt.Errorf("encode projection of job %q: %w", doc.ID, err)
	}
	return raw, nil
}

func runJobImport(cmd *commandContext, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	workers := fs.Int("workers", 4, "number of concurrent upserts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *workers < 1 {
		return errors.New("--workers must be at least 1")
	}

	input, closeInput, err := openImportInput(fs.Args())
	if err != nil {
		return err
	}
	defer closeInput()

	svc, cleanup, err := newJobService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Batch id ties together the log lines of one import run.
	logger := cmd.Logger.With("batch_id", uuid.NewString())

	g, ctx := errgroup.WithContext(cmd.Ctx)
	g.SetLimit(*workers)

	var imported atomic.Int64
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), importLineLimit)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		line := append([]byte(nil), scanner.Bytes()...)
		g.Go(func() error {
			doc, derr := model.JobFromJSON(line)
			if derr != nil {
				return derr
			}
			if uerr := svc.Upsert(ctx, doc); uerr != nil {
				return uerr
			}
			imported.Add(1)
			return nil
		})
	}
	if serr := scanner.Err(); serr != nil {
		return fmt.Errorf("read import input: %w", serr)
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.InfoContext(cmd.Ctx, "import finished", "imported", imported.Load())
	return nil
}

func openImportInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open import file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func runJobDelete(cmd *commandContext, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: kci-admin delete <job-kernel>")
	}

	svc, cleanup, err := newJobService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Delete(cmd.Ctx, fs.Arg(0)); err != nil {
		return err
	}
	cmd.Logger.InfoContext(cmd.Ctx, "job deleted", "id", fs.Arg(0))
	return nil
}

func runJobStats(cmd *commandContext, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, cleanup, err := newJobService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := svc.Count(cmd.Ctx)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "collection: %s\ndocuments:  %d\n", model.JobCollection, n)
}
