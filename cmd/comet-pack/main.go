// comet-pack produces signed comet plugin packages.
//
// It has two jobs: generating the ed25519 signing keypair, and packing a
// compiled plugin library plus its metadata record into a signed .cdp file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cometdp/comet/pkg/pack"
	"github.com/cometdp/comet/pkg/trust"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "comet-pack",
		Short:         "Package and sign comet plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenKeypairCmd())
	root.AddCommand(newPackCmd())
	return root
}

func newGenKeypairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-keypair [output-dir]",
		Short: "Generate an ed25519 signing keypair (public-key.pem, key.pem)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := trust.GenerateKeypairFiles(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s to %s\n",
				trust.PublicKeyFileName, trust.PrivateKeyFileName, dir)
			return nil
		},
	}
}

func newPackCmd() *cobra.Command {
	var (
		metadataPath string
		keyPath      string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "pack <library>",
		Short: "Pack a compiled plugin library into a signed .cdp package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryPath := args[0]
			if err := checkFileExists(libraryPath); err != nil {
				return err
			}

			if metadataPath == "" {
				metadataPath = filepath.Join(filepath.Dir(libraryPath), "metadata.yaml")
			}
			if err := checkFileExists(metadataPath); err != nil {
				return err
			}
			if keyPath == "" {
				keyPath = trust.PrivateKeyFileName
			}
			if err := checkFileExists(keyPath); err != nil {
				return err
			}

			key, err := trust.LoadPrivateKeyFile(keyPath)
			if err != nil {
				return err
			}

			metadata, err := pack.LoadMetadataFile(metadataPath)
			if err != nil {
				return err
			}

			library, err := os.ReadFile(libraryPath)
			if err != nil {
				return fmt.Errorf("read library: %w", err)
			}

			pkg := pack.New(metadata, library)
			exported, err := pkg.Export(trust.NewKeySigner(key))
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = filepath.Dir(libraryPath)
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			outPath := filepath.Join(outputDir, metadata.Name+pack.FileExtension)
			if err := os.WriteFile(outPath, exported, 0o644); err != nil {
				return fmt.Errorf("write package: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "packed %s -> %s\n", libraryPath, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&metadataPath, "metadata", "m", "", "Path to the metadata.yaml record (default: next to the library)")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Path to the signing key PEM (default: ./key.pem)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: next to the library)")
	return cmd
}

func checkFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("cannot find file: %s", path)
	}
	return nil
}
