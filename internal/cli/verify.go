package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalvas/salmon/magicsig"
)

// errInvalidSignature is returned when at least one envelope fails
// verification.
var errInvalidSignature = errors.New("signature verification failed")

func newVerifyCommand(a *app) *cobra.Command {
	var keyFile string

	cmd := &cobra.Command{
		Use:   "verify [FILE...]",
		Short: "Verify magic envelopes",
		Long: `Verify standalone or unfolded magic envelopes.

Each FILE (stdin when none is given) is parsed, its signer taken from the
first author of the content, and the signature checked against the
signer's key. Keys are discovered through WebFinger unless --key names a
public key file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, args, keyFile)
		},
	}

	cmd.Flags().StringVar(&keyFile, "key", "", "Verify against this key file instead of discovering keys")

	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, args []string, keyFile string) error {
	resolver := a.keyResolver()

	if keyFile != "" {
		key, err := a.loadKey(keyFile)
		if err != nil {
			return err
		}

		resolver = magicsig.StaticKey(key.Public())
	}

	protocol := a.protocol(resolver)

	if len(args) == 0 {
		args = []string{"-"}
	}

	failed := 0

	for _, path := range args {
		data, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		env, err := magicsig.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		signer, err := protocol.Signer(env)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		ok, err := protocol.Verify(cmd.Context(), env)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		a.logger.Debug("verified envelope",
			zap.String("file", path),
			zap.String("signer", signer),
			zap.Bool("valid", ok))

		status := "valid"
		if !ok {
			status = "INVALID"
			failed++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s signer=%s alg=%s\n", path, status, signer, env.Alg)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d envelopes", errInvalidSignature, failed, len(args))
	}

	return nil
}
