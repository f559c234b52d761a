package cli

import (
	"errors"
	"fmt"
	"io"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"

	"github.com/spf13/cobra"
)

// ErrMismatch is returned when a digest or password does not verify.
var ErrMismatch = errors.New("verification failed")

// HashCommand constructs the 'hash' command that computes and verifies
// digests of strings, files and stdin.
func (a *App) HashCommand() *cobra.Command {
	var (
		algorithms     []string
		files          []string
		hmacKey        string
		verify         string
		identify       bool
		password       bool
		verifyPassword string
	)

	cmd := &cobra.Command{
		Use:   "hash [text]",
		Short: "Computes, verifies and identifies hashes",
		Example: `  hash 'some text' -a sha256 -a blake2b-256
  hash --file release.tar.gz --verify 9f86d08...
  hash --identify 5f4dcc3b5aa765d61d8327deb882cf99
  hash --password`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hu := crypto.NewHashUtils(crypto.Argon2Params{})

			switch {
			case identify:
				if len(args) == 0 {
					return serrors.With(serrors.ErrBadRequest, "a digest to identify is required")
				}

				candidates := crypto.Identify(args[0])
				if len(candidates) == 0 {
					return serrors.With(serrors.ErrNotFound, "no known hash format matches")
				}

				return a.write(cmd, candidates)
			case password || verifyPassword != "":
				return a.hashPassword(cmd, hu, args, verifyPassword)
			}

			algs := make([]crypto.Algorithm, 0, len(algorithms))
			for _, name := range algorithms {
				alg, err := crypto.ParseAlgorithm(name)
				if err != nil {
					return err //nolint: wrapcheck
				}
				algs = append(algs, alg)
			}

			if len(files) > 0 {
				return a.hashFiles(cmd, hu, files, algs, verify)
			}

			var data []byte
			source := "string"
			if len(args) == 1 {
				data = []byte(args[0])
			} else {
				var err error
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("could not read stdin: %w", err)
				}
				source = "-"
			}

			digests := make([]domain.Digest, 0, len(algs))
			for _, alg := range algs {
				if hmacKey != "" {
					mac, err := hu.HMAC(alg, []byte(hmacKey), data)
					if err != nil {
						return err //nolint: wrapcheck
					}
					digests = append(digests, domain.Digest{Algorithm: string(alg), Hex: mac, Source: "hmac"})

					continue
				}

				d, err := hu.HashBytes(alg, data)
				if err != nil {
					return err //nolint: wrapcheck
				}
				d.Source = source
				digests = append(digests, d)
			}

			if err := a.write(cmd, digests); err != nil {
				return err
			}

			if verify != "" && !crypto.Compare(digests[0].Hex, verify) {
				return fmt.Errorf("%s digest: %w", digests[0].Algorithm, ErrMismatch)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&algorithms, "algorithm", "a", []string{string(crypto.SHA256)},
		"Hash algorithms, repeat or separate with commas")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Files to hash")
	cmd.Flags().StringVar(&hmacKey, "hmac-key", "", "Compute HMACs with this key")
	cmd.Flags().StringVar(&verify, "verify", "", "Expected hex digest of the first algorithm")
	cmd.Flags().BoolVar(&identify, "identify", false, "Identify the algorithm of a digest")
	cmd.Flags().BoolVar(&password, "password", false, "Hash a password with argon2id")
	cmd.Flags().StringVar(&verifyPassword, "verify-password", "", "Check a password against an argon2id or bcrypt hash")

	return cmd
}

func (a *App) hashFiles(cmd *cobra.Command, hu *crypto.HashUtils, files []string, algs []crypto.Algorithm, verify string) error {
	if verify != "" {
		failed := 0
		for _, path := range files {
			ok, err := hu.VerifyFile(path, algs[0], verify)
			if err != nil {
				return err //nolint: wrapcheck
			}

			status := "OK"
			if !ok {
				status = "FAILED"
				failed++
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, status); err != nil {
				return err //nolint: wrapcheck
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files: %w", failed, len(files), ErrMismatch)
		}

		return nil
	}

	var digests []domain.Digest
	for _, path := range files {
		d, err := hu.HashFileMulti(path, algs...)
		if err != nil {
			return err //nolint: wrapcheck
		}
		digests = append(digests, d...)
	}

	return a.write(cmd, digests)
}

func (a *App) hashPassword(cmd *cobra.Command, hu *crypto.HashUtils, args []string, encoded string) error {
	var (
		pw  string
		err error
	)
	if len(args) == 1 {
		pw = args[0]
	} else if pw, err = readPassword(cmd); err != nil {
		return err
	}

	if encoded != "" {
		ok, err := hu.VerifyPassword(pw, encoded)
		if err != nil {
			return err //nolint: wrapcheck
		}

		if !ok {
			return fmt.Errorf("password: %w", ErrMismatch)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), "password matches")

		return err //nolint: wrapcheck
	}

	hashed, err := hu.HashPassword(pw)
	if err != nil {
		return err //nolint: wrapcheck
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), hashed)

	return err //nolint: wrapcheck
}
