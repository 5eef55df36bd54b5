package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/pagetree/codec"
	"github.com/fumen-tools/fumetree/pkg/store"
)

// newStore builds the tree store from configuration: a local file store by
// default, or MongoDB when configured.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case "", "file":
		return store.NewFileStore(cfg.Dir)
	case "mongo":
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown store backend %q (want file or mongo)", cfg.Backend)
}

// storeCommand creates the store command group for named-tree persistence.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and retrieve named trees",
		Long: `Persist trees under user-chosen names so they survive between sessions
and can be shared through a MongoDB backend.`,
	}

	cmd.AddCommand(c.storePushCommand())
	cmd.AddCommand(c.storePullCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// storePushCommand creates the "store push" subcommand.
func (c *CLI) storePushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <name> <comment-or-file>",
		Short: "Save a tree under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			comment, err := readComment(args[1])
			if err != nil {
				return err
			}

			tree, ok := codec.Decode(comment)
			if !ok {
				return apperrors.New(apperrors.ErrCodeInvalidComment, "no decodable tree data in comment")
			}

			s, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			rec := store.Record{Name: name, Tree: tree, Comment: codec.Strip(comment)}
			if err := s.Save(cmd.Context(), rec); err != nil {
				return err
			}

			printSuccess("Saved %q (%d pages)", name, tree.Len())
			printNextStep("Retrieve it with", fmt.Sprintf("fumetree store pull %s", name))
			return nil
		},
	}
}

// storePullCommand creates the "store pull" subcommand.
func (c *CLI) storePullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <name>",
		Short: "Print a stored tree as an embeddable comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			rec, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(codec.Append(rec.Comment, rec.Tree))
			return nil
		},
	}
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tree names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			names, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No stored trees")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// storeDeleteCommand creates the "store delete" subcommand.
func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %q", args[0])
			return nil
		},
	}
}
