package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ingest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

type processFlags struct {
	input   string
	output  string
	format  string
	persist bool
}

func (f *processFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input-file", "i", "", "input file path (csv or json)")
	cmd.Flags().StringVarP(&f.output, "output-file", "o", "", "output JSON file path; stdout when empty")
	cmd.Flags().StringVar(&f.format, "format", "", "input format: csv or json (default: from the file extension)")
	cmd.Flags().BoolVar(&f.persist, "persist", false, "store successful records in the configured database")
	_ = cmd.MarkFlagRequired("input-file")
}

func (a *app) processUsersCommand() *cobra.Command {
	var f processFlags
	cmd := &cobra.Command{
		Use:   "process-users",
		Short: "Validate user rows and convert them to JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, f, ingest.Users(),
				func(u user.User) string { return "user: " + u.FullName() },
				func(s *Store) func(context.Context, user.User) (user.User, error) {
					return func(ctx context.Context, u user.User) (user.User, error) {
						u.ID = 0
						return s.Users.Create(ctx, u)
					}
				})
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) processProductsCommand() *cobra.Command {
	var f processFlags
	cmd := &cobra.Command{
		Use:   "process-products",
		Short: "Validate product rows and convert them to JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, f, ingest.Products(),
				func(p catalog.Product) string {
					return fmt.Sprintf("product: %s (%s)", p.Name, p.FormattedPrice())
				},
				func(s *Store) func(context.Context, catalog.Product) (catalog.Product, error) {
					return func(ctx context.Context, p catalog.Product) (catalog.Product, error) {
						p.ID = 0
						return s.Catalog.CreateProduct(ctx, p)
					}
				})
		},
	}
	f.register(cmd)
	return cmd
}

// runBatch reads the rows, converts them and reports the result. Bad rows
// only show up in the result; unreadable input is returned as an error.
func runBatch[T any](
	cmd *cobra.Command,
	a *app,
	f processFlags,
	kind ingest.Kind[T],
	label func(T) string,
	creator func(*Store) func(context.Context, T) (T, error),
) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := ingest.ParseFormat(f.format, f.input)
	if err != nil {
		return err
	}
	rows, err := ingest.ReadFile(f.input, format)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.input, err)
	}
	fmt.Fprintf(out, "Reading %d %s from %s\n", len(rows), kind.Name, f.input)

	res := ingest.Run(rows, kind, a.opts.Now())

	if f.persist {
		store, err := a.openStore(ctx)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		if store.Close != nil {
			defer store.Close()
		}
		if err := res.Store(ctx, creator(store)); err != nil {
			return fmt.Errorf("persist %s: %w", kind.Name, err)
		}
	}

	a.logger.Info("batch processed", "kind", kind.Name, "processed", res.TotalProcessed(), "errors", res.TotalErrors())
	for _, rec := range res.Records {
		fmt.Fprintf(out, "Processed %s\n", label(rec))
	}
	printSummary(out, kind.Name, res.TotalProcessed(), res.Errors)

	body, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if f.output == "" {
		fmt.Fprintln(out, "\nJSON Output:")
		fmt.Fprintln(out, string(body))
		return nil
	}
	if err := os.WriteFile(f.output, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}
	fmt.Fprintf(out, "Output saved to %s\n", f.output)
	return nil
}

func printSummary(out io.Writer, kind string, processed int, errs []string) {
	fmt.Fprintln(out, "\nProcessing Results:")
	fmt.Fprintf(out, "  Successfully processed: %d %s\n", processed, kind)
	fmt.Fprintf(out, "  Errors: %d\n", len(errs))
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(out, "\nErrors encountered:")
	for _, e := range errs {
		fmt.Fprintf(out, "  - %s\n", e)
	}
}
