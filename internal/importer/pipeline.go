package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledger-tools/ledgerimport/internal/categorize"
	"github.com/ledger-tools/ledgerimport/internal/model"
	"github.com/ledger-tools/ledgerimport/internal/progress"
	"github.com/ledger-tools/ledgerimport/internal/storage"
)

// maxConcurrentImports bounds both the file-path channel and the number of
// files imported at once, so a large tree cannot grow unbounded memory
// ahead of the workers.
const maxConcurrentImports = 8

type fileJob struct {
	account  string
	filePath string
}

// Run drives one full import: walks every account's source directory,
// parses and classifies each file's transactions concurrently, writes the
// categorized stream to store, then fills in the categories and date range
// discovered along the way. prog is updated as the run progresses; pass nil
// to skip progress reporting. lenient routes OFX files through the
// tolerant preprocessing pass (see internal/ofx.OpenLenient).
func Run(ctx context.Context, store storage.Store, cat *categorize.Categorizer, prog *progress.State, accounts []model.AccountConfig, lenient bool) error {
	if prog != nil {
		prog.SetStep(progress.LoadingFiles)
	}

	jobs := make(chan fileJob, maxConcurrentImports)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(jobs)
		return listAccounts(groupCtx, accounts, jobs, prog)
	})

	var (
		datesMu            sync.Mutex
		haveDates          bool
		firstDate, lastDate time.Time
	)

	for i := 0; i < maxConcurrentImports; i++ {
		group.Go(func() error {
			for job := range jobs {
				first, last, ok, err := importFile(groupCtx, store, cat, job, lenient)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", job.filePath, err)
				}
				if prog != nil {
					prog.IncrementLoaded()
				}
				if !ok {
					continue
				}

				datesMu.Lock()
				if !haveDates || first.Before(firstDate) {
					firstDate = first
				}
				if !haveDates || last.After(lastDate) {
					lastDate = last
				}
				haveDates = true
				datesMu.Unlock()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, category := range cat.Categories() {
		if err := store.AddCategory(ctx, category.Name, category.Income); err != nil {
			return fmt.Errorf("failed to record category %q: %w", category.Name, err)
		}
	}

	if haveDates {
		for d := firstDate; !d.After(lastDate); d = d.AddDate(0, 0, 1) {
			if err := store.AddDate(ctx, d); err != nil {
				return fmt.Errorf("failed to record date %s: %w", d.Format("2006-01-02"), err)
			}
		}
	}

	if prog != nil {
		prog.SetStep(progress.Done)
	}
	return nil
}

// listAccounts walks every account's source directory recursively and
// enqueues every entry that is not a directory. Symbolic links are enqueued
// as they are; a link to a directory is not descended into.
func listAccounts(ctx context.Context, accounts []model.AccountConfig, jobs chan<- fileJob, prog *progress.State) error {
	var total int64
	var discovered []fileJob

	for _, account := range accounts {
		err := filepath.WalkDir(account.SourcePath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("failed to walk %s: %w", path, err)
			}
			if d.IsDir() {
				return nil
			}
			discovered = append(discovered, fileJob{account: account.Name, filePath: path})
			total++
			return nil
		})
		if err != nil {
			return err
		}
	}

	if prog != nil {
		prog.SetTotal(total)
	}

	for _, job := range discovered {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case jobs <- job:
		}
	}
	return nil
}

// importFile opens job.filePath, ensures its account row exists, then reads,
// classifies, and writes every transaction in file order. It returns the
// min/max posted dates seen among transactions actually written, and ok=false
// if no transaction was written (so the caller should not fold empty bounds
// into the run's date range).
func importFile(ctx context.Context, store storage.Store, cat *categorize.Categorizer, job fileJob, lenient bool) (first, last time.Time, ok bool, err error) {
	src, err := OpenTransactionSource(job.filePath, lenient)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	defer func() { _ = src.Close() }()

	if err := store.AddAccount(ctx, job.account); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to add account %q: %w", job.account, err)
	}

	for {
		txn, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to read transaction: %w", err)
		}

		if txn.IsMultilineContinuation() {
			continue
		}

		status, err := cat.Classify(job.account, txn.Name, txn.Type, txn.Memo, txn.Amount)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to classify transaction %q: %w", txn.Name, err)
		}

		if status.Uncategorized != nil {
			if err := store.AddUncategorizedTransaction(ctx, *status.Uncategorized); err != nil {
				return time.Time{}, time.Time{}, false, fmt.Errorf("failed to record uncategorized transaction: %w", err)
			}
			continue
		}

		if status.Categorization.Ignore {
			continue
		}

		if err := store.AddCategory(ctx, status.Categorization.Category, status.Categorization.Income); err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to record category %q: %w", status.Categorization.Category, err)
		}

		if !ok || txn.DatePosted.Before(first) {
			first = txn.DatePosted
		}
		if !ok || txn.DatePosted.After(last) {
			last = txn.DatePosted
		}
		ok = true

		row := storage.TransactionRow{
			Account:         job.account,
			Category:        status.Categorization.Category,
			SourceCategory:  txn.Category,
			Income:          status.Categorization.Income,
			TransactionType: txn.Type,
			Date:            txn.DatePosted,
			Amount:          txn.Amount,
			TransactionID:   txn.TransactionID,
			Name:            txn.Name,
			Memo:            txn.Memo,
		}
		if err := store.AddTransaction(ctx, row); err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to add transaction %q: %w", txn.Name, err)
		}
	}

	return first, last, ok, nil
}
