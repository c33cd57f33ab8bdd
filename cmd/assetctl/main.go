package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/order"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	corpusrepo "github.com/kailas-cloud/assetdex/internal/repository/corpus"
	searchuc "github.com/kailas-cloud/assetdex/internal/usecase/search"
	"github.com/kailas-cloud/assetdex/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "assetctl:", err)
		os.Exit(1)
	}
}

func corpusFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "corpus",
		Aliases:  []string{"c"},
		Usage:    "Path to the asset fixture (.yaml or .json)",
		EnvVars:  []string{"ASSETDEX_CORPUS"},
		Required: true,
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "assetctl",
		Usage:   "Query an asset fixture from the command line",
		Version: version.String(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Run one search and print hits with facet counts",
				Action: searchCommand,
				Flags: []cli.Flag{
					corpusFlag(),
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   `Free text, optionally with field scopes such as "tags: nike"`,
					},
					&cli.StringSliceFlag{
						Name:    "facet",
						Aliases: []string{"f"},
						Usage:   "Facet selection as field=value (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "tags-all",
						Usage: "Require every listed tag (repeatable)",
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "newest, oldest, relevance or name",
						Value: string(order.Newest),
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Print at most N hits (0 = all)",
					},
					&cli.TimestampFlag{
						Name:   "now",
						Usage:  "Evaluate date buckets as of this time (RFC3339)",
						Layout: time.RFC3339,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print JSON instead of a table",
					},
				},
			},
			{
				Name:   "facets",
				Usage:  "List the facet taxonomy of a fixture",
				Action: facetsCommand,
				Flags:  []cli.Flag{corpusFlag()},
			},
		},
	}
}

func loadService(c *cli.Context) (*searchuc.Service, error) {
	logger, err := logpkg.NewLogger("local", c.String("log-level"))
	if err != nil {
		return nil, err
	}

	fx, err := corpusrepo.NewLoader(logger).Load(c.String("corpus"))
	if err != nil {
		return nil, err
	}
	tax, err := fx.Taxonomy()
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	m, err := searchuc.NewMatcher(0, 0)
	if err != nil {
		return nil, err
	}

	svc := searchuc.New(fx.Corpus, tax, m).WithLogger(logger)
	if now := c.Timestamp("now"); now != nil {
		at := *now
		svc.WithClock(func() time.Time { return at })
	}
	return svc, nil
}

func parseSelections(raw []string) ([]facet.Selection, error) {
	out := make([]facet.Selection, 0, len(raw))
	for _, s := range raw {
		name, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("facet %q: want field=value", s)
		}
		field, err := facet.ParseField(name)
		if err != nil {
			return nil, err
		}
		out = append(out, facet.Selection{Field: field, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

func searchCommand(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	picked, err := parseSelections(c.StringSlice("facet"))
	if err != nil {
		return err
	}
	scoped := query.ParseScoped(c.String("query"))
	d, err := query.New(
		scoped.FreeText,
		append(scoped.Selections, picked...),
		query.Filters{TagsAll: c.StringSlice("tags-all")},
		order.Order(strings.ToLower(c.String("order"))),
	)
	if err != nil {
		return err
	}

	set, err := svc.Search(context.Background(), d)
	if err != nil {
		return err
	}

	hits := set.Hits
	if n := c.Int("limit"); n > 0 && n < len(hits) {
		hits = hits[:n]
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, set, hits)
	}
	return printTable(c.App.Writer, set, hits)
}

type jsonHit struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Creator     string   `json:"creator"`
	MediaKind   string   `json:"media_kind"`
	CreatedAt   string   `json:"created_at"`
	Tags        []string `json:"tags"`
	Score       float64  `json:"score"`
}

type jsonFacet struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

type jsonOutput struct {
	Total  int         `json:"total"`
	Hits   []jsonHit   `json:"hits"`
	Facets []jsonFacet `json:"facets"`
}

func printJSON(w io.Writer, set result.Set, hits []result.Hit) error {
	out := jsonOutput{
		Total:  len(set.Hits),
		Hits:   make([]jsonHit, 0, len(hits)),
		Facets: make([]jsonFacet, 0, len(set.Facets)),
	}
	for _, h := range hits {
		a := h.Asset()
		out.Hits = append(out.Hits, jsonHit{
			ID:          a.ID(),
			DisplayName: a.DisplayName(),
			Creator:     a.CreatorName(),
			MediaKind:   string(a.Kind()),
			CreatedAt:   a.CreatedAt().Format(time.RFC3339),
			Tags:        a.Tags(),
			Score:       h.Score(),
		})
	}
	for _, fc := range set.Facets {
		out.Facets = append(out.Facets, jsonFacet{Field: string(fc.Key.Field), Value: fc.Key.Value, Count: fc.Count})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTable(w io.Writer, set result.Set, hits []result.Hit) error {
	if set.NoMatches() {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATOR\tKIND\tCREATED\tSCORE")
	for _, h := range hits {
		a := h.Asset()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.3f\n",
			a.ID(), a.DisplayName(), a.CreatorName(), a.Kind(), a.CreatedAt().Format(time.DateOnly), h.Score())
	}
	fmt.Fprintf(tw, "\n%d of %d hits\n\nFACET\tVALUE\tCOUNT\n", len(hits), len(set.Hits))
	for _, fc := range set.Facets {
		if fc.Count > 0 {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", fc.Key.Field, fc.Label, fc.Count)
		}
	}
	return tw.Flush()
}

func facetsCommand(c *cli.Context) error {
	svc, err := loadService(c)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tLABEL")
	for _, d := range svc.Taxonomy().Definitions() {
		for _, v := range d.Values {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Field, v.Value, v.Label)
		}
	}
	return tw.Flush()
}
