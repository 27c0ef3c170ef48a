package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
	"github.com/rshade/bookcat/internal/pagination"
	"github.com/rshade/bookcat/internal/view"
)

// listParams holds the flags shared by list, search and by-author.
type listParams struct {
	page     int
	pageSize int
	limit    int
	offset   int
	sort     string
}

func addListFlags(cmd *cobra.Command, params *listParams) {
	cmd.Flags().IntVar(&params.page, "page", 0,
		"Page number for page-based pagination (1-indexed, default 1)")
	cmd.Flags().IntVar(&params.pageSize, "page-size", 0,
		"Number of books per page (default from display.page_size)")
	cmd.Flags().IntVar(&params.limit, "limit", 0,
		"Maximum number of books to return in offset mode (0 = unlimited)")
	cmd.Flags().IntVar(&params.offset, "offset", 0,
		"Number of books to skip for offset-based pagination")
	cmd.Flags().StringVar(&params.sort, "sort", "",
		"Sort expression (e.g., 'title', 'created:desc'; default from display.sort)")
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var (
		params listParams
		mode   string
		term   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books one page at a time",
		Example: `  # First page of every book
  bookcat list

  # Third page, ten per page, newest first
  bookcat list --page 3 --page-size 10 --sort created:desc

  # Skip 20 books and show the next 5
  bookcat list --offset 20 --limit 5

  # Same as 'bookcat search dune'
  bookcat list --mode search --term dune`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := view.ParseMode(mode)
			if err != nil {
				return err
			}
			q := view.Query{Mode: m, Term: term}
			if m == view.ModeAll {
				q = view.All()
			}
			return runList(cmd, q, params)
		},
	}

	addListFlags(cmd, &params)
	cmd.Flags().StringVar(&mode, "mode", "all", "Query mode: all, search or author")
	cmd.Flags().StringVar(&term, "term", "", "Title fragment or author name for --mode search|author")

	return cmd
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var params listParams

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search books by title",
		Long:  "Lists the books whose title contains the given text, ignoring case.",
		Example: `  bookcat search gatsby
  bookcat search "the great" --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, view.Search(strings.Join(args, " ")), params)
		},
	}
	addListFlags(cmd, &params)
	return cmd
}

// NewByAuthorCmd creates the by-author command.
func NewByAuthorCmd() *cobra.Command {
	var params listParams

	cmd := &cobra.Command{
		Use:     "by-author <author>",
		Aliases: []string{"author"},
		Short:   "List the books of an author",
		Example: `  bookcat by-author "Jane Austen"
  bookcat by-author Tolkien --sort created`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, view.ByAuthor(strings.Join(args, " ")), params)
		},
	}
	addListFlags(cmd, &params)
	return cmd
}

// runList runs q and prints the selected page. Page-based selection goes
// through view.State so out-of-range pages clamp the same way the browser
// does; --limit/--offset select an arbitrary slice instead.
func runList(cmd *cobra.Command, q view.Query, params listParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	pp := pagination.PaginationParams{
		Limit:    params.limit,
		Offset:   params.offset,
		Page:     params.page,
		PageSize: params.pageSize,
	}
	offsetMode := params.page == 0 && (params.limit > 0 || params.offset > 0)
	if !offsetMode {
		if pp.Page == 0 {
			pp.Page = pagination.DefaultPage
		}
		if pp.PageSize == 0 {
			pp.PageSize = cfg.Display.PageSize
		}
	}
	if validationErr := pp.Validate(); validationErr != nil {
		return fmt.Errorf("invalid pagination parameters: %w", validationErr)
	}

	sortExpr := params.sort
	if sortExpr == "" {
		sortExpr = cfg.Display.Sort
	}
	field, order, err := pagination.ParseSort(sortExpr)
	if err != nil {
		return fmt.Errorf("invalid sort expression: %w", err)
	}
	sorter := pagination.NewBookSorter(localeTag(cfg.Display.Locale))
	if field != "" && !sorter.IsValidField(field) {
		return fmt.Errorf("%w: %q (valid fields: %s)",
			pagination.ErrInvalidSortField, field, strings.Join(sorter.GetValidFields(), ", "))
	}

	svc, err := sessionFrom(cmd).catalog(ctx)
	if err != nil {
		return err
	}
	records, err := svc.Query(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", describeFailure(q), err)
	}
	if field != "" {
		records = sorter.Sort(records, field, order)
		log.Debug().Ctx(ctx).
			Str("field", field).
			Str("order", order).
			Int("count", len(records)).
			Msg("applied sorting")
	}

	listing := bookListing{Query: q.String()}
	if offsetMode {
		listing.Books = pagination.Apply(pp, records)
		meta := pagination.FromParams(pp, len(records))
		listing.Pagination = &meta
	} else {
		state := view.New(pp.PageSize)
		state, ticket := state.Dispatch(q)
		state, _ = state.Resolve(ticket, records)
		state = state.ChangePage(pp.Page)
		listing.Books = state.Visible()
		meta := state.Meta()
		listing.Pagination = &meta
		listing.Window = state.Window(cfg.Display.MaxVisiblePages)
	}

	log.Debug().Ctx(ctx).
		Str("query", q.String()).
		Int("total", len(records)).
		Int("returned", len(listing.Books)).
		Msg("listed books")

	return renderBooks(cmd.OutOrStdout(), format, listing, cfg.Display.DateFormat)
}

func describeFailure(q view.Query) string {
	switch q.Mode {
	case view.ModeSearch:
		return "failed to search books"
	case view.ModeAuthor:
		return "failed to filter books"
	default:
		return "failed to load books"
	}
}

func localeTag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>...",
		Short: "Show books by id",
		Long:  "Fetches one or more books by id. Several ids are fetched concurrently.",
		Example: `  bookcat get 7
  bookcat get 7 8 9 --output yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			svc, err := sessionFrom(cmd).catalog(ctx)
			if err != nil {
				return err
			}

			ids := make([]book.ID, len(args))
			for i, a := range args {
				ids[i] = book.ID(a)
			}
			records, err := svc.GetMany(ctx, ids)
			if err != nil {
				return err
			}

			if len(records) == 1 {
				return renderBook(cmd.OutOrStdout(), format, records[0], cfg.Display.DateFormat)
			}
			return renderBooks(cmd.OutOrStdout(), format, bookListing{Books: records}, cfg.Display.DateFormat)
		},
	}
}
