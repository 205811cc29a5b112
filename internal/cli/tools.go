package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dateutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/seed"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/textutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

const textUtilsTruncate = 20

func textUtilsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "text-utils TEXT",
		Short: "Show the capitalized, slugified and truncated forms of TEXT",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			text := args[0]
			fmt.Fprintf(out, "Original text: '%s'\n\n", text)
			fmt.Fprintf(out, "Capitalized:   '%s'\n", textutil.CapitalizeWords(text))
			fmt.Fprintf(out, "Slugified:     '%s'\n", textutil.Slugify(text))
			fmt.Fprintf(out, "Truncated:     '%s'\n", textutil.Truncate(text, textUtilsTruncate))
		},
	}
}

func validateEmailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-email EMAIL",
		Short: "Check the syntax of an email address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			status := "Invalid"
			if validation.IsValidEmail(args[0]) {
				status = "Valid"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Email: %s\nStatus: %s\n", args[0], status)
		},
	}
}

func generateSampleDataCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "generate-sample-data",
		Short: "Write sample user and product CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := seed.WriteSampleCSV(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range paths {
				fmt.Fprintf(out, "Generated %s\n", p)
			}
			fmt.Fprintln(out, "\nTry running:")
			fmt.Fprintf(out, "  storefront-cli process-users -i %s\n", paths[0])
			fmt.Fprintf(out, "  storefront-cli process-products -i %s\n", paths[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory for the generated files")
	return cmd
}

func (a *app) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a user, a product and an order with the shared packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			now := a.opts.Now()

			fmt.Fprintln(out, "1. Creating sample data...")
			u := user.New(user.Params{
				ID:        1,
				Username:  "demo_user",
				Email:     "demo@example.com",
				FirstName: "Demo",
				LastName:  "User",
				IsActive:  true,
				CreatedAt: now,
			})
			fmt.Fprintf(out, "   User created: %s\n", u.FullName())

			p, err := catalog.NewProduct(catalog.ProductParams{
				ID:            1,
				Name:          "demo product",
				Description:   "A sample product for demonstration",
				Price:         decimal.RequireFromString("99.99"),
				SKU:           "DEMO-001",
				CategoryID:    1,
				StockQuantity: 10,
				IsActive:      true,
				CreatedAt:     now,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "   Product created: %s (%s)\n", p.Name, p.FormattedPrice())

			o := order.New(order.Params{ID: 1, UserID: u.ID, CreatedAt: now})
			if _, err := o.AddProduct(p.ID, p.Name, p.SKU, 2, p.Price); err != nil {
				return err
			}
			fmt.Fprintf(out, "   Order created: %d items, %s\n", o.TotalItems(), o.FormattedTotalAmount())

			fmt.Fprintln(out, "\n2. Testing utility functions...")
			sample := "hello world example"
			fmt.Fprintf(out, "   Original: '%s'\n", sample)
			fmt.Fprintf(out, "   Capitalized: '%s'\n", textutil.CapitalizeWords(sample))
			fmt.Fprintf(out, "   Slugified: '%s'\n", textutil.Slugify(sample))
			fmt.Fprintf(out, "   Truncated: '%s'\n", textutil.Truncate(sample, 15))
			email := "test@example.com"
			fmt.Fprintf(out, "   Email '%s' is valid: %t\n", email, validation.IsValidEmail(email))
			fmt.Fprintf(out, "   Current time: %s\n", dateutil.Format(now, dateutil.DateTimeLayout))

			fmt.Fprintln(out, "\nDemo completed successfully!")
			return nil
		},
	}
}
