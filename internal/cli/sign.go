package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalvas/salmon/magicsig"
	"github.com/vitalvas/salmon/salmon"
)

type signOptions struct {
	keyFile  string
	signer   string
	dataType string
	unfold   bool

	// Entry composition
	title      string
	content    string
	authorName string
	inReplyTo  string
}

func newSignCommand(a *app) *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign [FILE]",
		Short: "Sign content into a magic envelope",
		Long: `Sign an Atom entry into a magic envelope.

The entry is read from FILE, or stdin when FILE is omitted or "-". With
--content, a new entry authored by the signer is composed instead. The
signer must be the first author of the entry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSign(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.keyFile, "key", "", "Private key file (default: key_file from config)")
	cmd.Flags().StringVar(&opts.signer, "signer", "", "Signer account, e.g. acct:alice@example.com")
	cmd.Flags().StringVar(&opts.dataType, "type", magicsig.AtomMediaType, "Media type of the signed content")
	cmd.Flags().BoolVar(&opts.unfold, "unfold", false, "Emit the entry with an embedded provenance block")
	cmd.Flags().StringVar(&opts.title, "title", "", "Title of a composed entry")
	cmd.Flags().StringVar(&opts.content, "content", "", "Compose a new entry with this text")
	cmd.Flags().StringVar(&opts.authorName, "author-name", "", "Author display name of a composed entry")
	cmd.Flags().StringVar(&opts.inReplyTo, "in-reply-to", "", "Id of the entry a composed entry replies to")
	_ = cmd.MarkFlagRequired("signer")

	return cmd
}

func (a *app) runSign(cmd *cobra.Command, args []string, opts *signOptions) error {
	key, err := a.loadKey(opts.keyFile)
	if err != nil {
		return err
	}

	var content []byte

	if cmd.Flags().Changed("content") {
		content, err = salmon.NewEntry(salmon.EntryConfig{
			AuthorName: opts.authorName,
			AuthorURI:  opts.signer,
			Title:      opts.title,
			Content:    opts.content,
			InReplyTo:  opts.inReplyTo,
		})
	} else {
		var path string
		if len(args) > 0 {
			path = args[0]
		}

		content, err = readInput(cmd, path)
	}

	if err != nil {
		return err
	}

	env, err := a.protocol(nil).SignMessage(content, opts.dataType, opts.signer, key)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	a.logger.Debug("signed envelope",
		zap.String("signer", magicsig.Normalize(opts.signer)),
		zap.String("alg", env.Alg))

	out := env.Marshal()

	if opts.unfold {
		out, err = magicsig.Unfold(env)
		if err != nil {
			return fmt.Errorf("failed to unfold: %w", err)
		}
	}

	_, err = cmd.OutOrStdout().Write(out)

	return err
}
