package main

import (
	"encoding/json"
	"io"
	"strings"

	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/core/gridfilter"
	"dcbadmin/internal/core/gridquery"
	"dcbadmin/internal/core/search"
	"dcbadmin/internal/platform/config"
	perr "dcbadmin/internal/platform/errors"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dcb-admin-query",
		Short:         "Search and grid query helpers for the DCB admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newGridCmd(), newSearchCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseCriterion reads [OP:]field=value, e.g. "title=dune" or "OR:author=herbert"
func parseCriterion(arg string) (search.Criterion, error) {
	op := search.AND
	if head, rest, ok := strings.Cut(arg, ":"); ok {
		if parsed, err := search.ParseOperator(head); err == nil {
			op, arg = parsed, rest
		}
	}
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return search.Criterion{}, perr.InvalidArgf("criterion %q is not field=value", arg)
	}
	field, err := search.ParseField(strings.TrimSpace(name))
	if err != nil {
		return search.Criterion{}, err
	}
	return search.New(field, value, op), nil
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [OP:]field=value...",
		Short: "Build a search query string from criteria",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c search.Criteria
			for _, a := range args {
				x, err := parseCriterion(a)
				if err != nil {
					return err
				}
				c = append(c, x)
			}
			c = search.Normalize(c)
			if err := search.Validate(c); err != nil {
				return err
			}
			_, err := io.WriteString(cmd.OutOrStdout(), search.BuildQuery(c)+"\n")
			return err
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode QUERY",
		Short: "Parse a search query string back into criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), search.ParseQuery(args[0]))
		},
	}
}

func newGridCmd() *cobra.Command {
	grid := &cobra.Command{Use: "grid", Short: "Grid list query helpers"}

	grid.AddCommand(&cobra.Command{
		Use:   "kinds",
		Short: "List the grid kinds and their columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), gridquery.Kinds())
		},
	})

	var (
		quick, preset, filter, sortBy, dir string
		page, size                         int
	)
	vars := &cobra.Command{
		Use:   "vars KIND",
		Short: "Print the list query variables a grid state produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := gridquery.Lookup(args[0])
			if err != nil {
				return err
			}
			c := gridquery.NewController(k, preset)
			if filter != "" {
				var m gridfilter.Model
				if err := json.Unmarshal([]byte(filter), &m); err != nil {
					return perr.Wrapf(err, perr.ErrorCodeJSON, "filter is not a grid filter model")
				}
				if err := c.SetFilter(m); err != nil {
					return err
				}
			}
			if quick != "" {
				c.SetQuickSearch(quick)
			}
			if sortBy != "" {
				c.SetSort(sortBy, gridquery.ParseDirection(dir))
			}
			c.SetPagination(page, size)
			return printJSON(cmd.OutOrStdout(), c.Variables())
		},
	}
	f := vars.Flags()
	f.StringVar(&quick, "quick", "", "quick search text")
	f.StringVar(&preset, "preset", "", "preset query AND-ed in front")
	f.StringVar(&filter, "filter", "", "grid filter model as JSON")
	f.StringVar(&sortBy, "sort", "", "sort column")
	f.StringVar(&dir, "dir", "asc", "sort direction asc|desc")
	f.IntVar(&page, "page", 0, "zero based page")
	f.IntVar(&size, "size", gridquery.DefaultPageSize, "page size")
	grid.AddCommand(vars)

	return grid
}

func newSearchCmd() *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Run a query string against DCB (DCB_BASE_URL, DCB_TOKEN)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New().Prefix("DCB_")
			client := dcb.NewClient(dcb.Options{
				BaseURL: cfg.MustString("BASE_URL"),
				Timeout: cfg.MayDuration("TIMEOUT", 0),
			})
			res, err := client.SearchInstances(cmd.Context(), dcb.StaticToken(cfg.MayString("TOKEN", "")), args[0], offset, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().IntVar(&limit, "limit", 10, "page size")
	return cmd
}
