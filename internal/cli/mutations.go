package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
	"github.com/rshade/bookcat/internal/tui"
)

// bookFlags holds the editable fields of a book.
type bookFlags struct {
	title     string
	author    string
	publisher string
}

func addBookFlags(cmd *cobra.Command, f *bookFlags) {
	cmd.Flags().StringVar(&f.title, "title", "", "Book title (2-200 characters)")
	cmd.Flags().StringVar(&f.author, "author", "", "Author name (2-100 characters)")
	cmd.Flags().StringVar(&f.publisher, "publisher", "", "Publisher (optional, up to 100 characters)")
}

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Example: `  bookcat add --title "Dune" --author "Frank Herbert"
  bookcat add --title "Emma" --author "Jane Austen" --publisher "John Murray"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			in := book.NewInput(f.title, f.author, f.publisher)
			audit := newAuditContext(ctx, "add", map[string]string{
				"title":  in.Title,
				"author": in.Author,
			})

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return audit.finish(ctx, 0, err)
			}
			svc, err := sessionFrom(cmd).catalog(ctx)
			if err != nil {
				return audit.finish(ctx, 0, err)
			}

			rec, err := svc.Create(ctx, in)
			if err != nil {
				return audit.finish(ctx, 0, fmt.Errorf("failed to save book: %w", err))
			}
			_ = audit.finish(ctx, 1, nil)

			logging.FromContext(ctx).Info().Ctx(ctx).Str("book_id", rec.ID.String()).Msg("book created")
			if format == config.FormatTable {
				cmd.Println("Book created successfully")
			}
			return renderBook(cmd.OutOrStdout(), format, rec, cfg.Display.DateFormat)
		},
	}

	addBookFlags(cmd, &f)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

// NewUpdateCmd creates the update command. Fields not given keep their
// current values, which are fetched first.
func NewUpdateCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a book",
		Long: `Updates the given fields of a book. Fields that are not passed keep their
current values. Pass --publisher "" to clear the publisher.`,
		Example: `  bookcat update 42 --title "Dune Messiah"
  bookcat update 42 --publisher ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			id := book.ID(args[0])
			audit := newAuditContext(ctx, "update", map[string]string{"id": id.String()})

			changed := cmd.Flags().Changed
			if !changed("title") && !changed("author") && !changed("publisher") {
				return errors.New("nothing to update: pass at least one of --title, --author, --publisher")
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			svc, err := sessionFrom(cmd).catalog(ctx)
			if err != nil {
				return audit.finish(ctx, 0, err)
			}

			current, err := svc.Get(ctx, id)
			if err != nil {
				return audit.finish(ctx, 0, fmt.Errorf("failed to load book for editing: %w", err))
			}
			in := current.Input()
			if changed("title") {
				in.Title = f.title
			}
			if changed("author") {
				in.Author = f.author
			}
			if changed("publisher") {
				in = book.NewInput(in.Title, in.Author, f.publisher)
			}
			in = in.Normalize()

			rec, err := svc.Update(ctx, id, in)
			if err != nil {
				return audit.finish(ctx, 0, fmt.Errorf("failed to save book: %w", err))
			}
			_ = audit.finish(ctx, 1, nil)

			if format == config.FormatTable {
				cmd.Println("Book updated successfully")
			}
			return renderBook(cmd.OutOrStdout(), format, rec, cfg.Display.DateFormat)
		},
	}

	addBookFlags(cmd, &f)
	return cmd
}

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete books",
		Long: `Deletes one or more books. Unless --yes is given, the books are shown and
a confirmation is required. Without a terminal, --yes is mandatory.`,
		Example: `  bookcat delete 42
  bookcat delete 42 43 --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "delete", map[string]string{"ids": strings.Join(args, ",")})

			svc, err := sessionFrom(cmd).catalog(ctx)
			if err != nil {
				return audit.finish(ctx, 0, err)
			}
			ids := make([]book.ID, len(args))
			for i, a := range args {
				ids[i] = book.ID(a)
			}

			if !yes {
				if cmd.InOrStdin() == os.Stdin && !tui.IsInputTTY() {
					return errors.New("refusing to delete without confirmation: pass --yes")
				}
				records, err := svc.GetMany(ctx, ids)
				if err != nil {
					return audit.finish(ctx, 0, err)
				}
				answer := ConfirmDelete(cmd.OutOrStdout(), cmd.InOrStdin(), records)
				if !answer.Accepted {
					cmd.Println("Delete cancelled")
					return nil
				}
			}

			deleted := 0
			for _, id := range ids {
				ok, err := svc.Delete(ctx, id)
				if err != nil {
					return audit.finish(ctx, deleted, fmt.Errorf("failed to delete book %s: %w", id, err))
				}
				if !ok {
					return audit.finish(ctx, deleted, fmt.Errorf("failed to delete book %s: not deleted by the server", id))
				}
				deleted++
				cmd.Printf("Book %s deleted successfully\n", id)
			}
			return audit.finish(ctx, deleted, nil)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking for confirmation")
	return cmd
}
