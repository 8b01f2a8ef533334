package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/mindmap/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage provider API keys stored outside config.toml",
}

var keySetCmd = &cobra.Command{
	Use:   "set PROVIDER",
	Short: "Read an API key from stdin and store it for PROVIDER",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ring, err := secrets.Default()
		if err != nil {
			return err
		}
		key, err := readKey(cmd)
		if err != nil {
			return err
		}
		if err := ring.Put(args[0], key); err != nil {
			return err
		}
		info.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", strings.ToLower(args[0]))
		return nil
	},
}

var keyRmCmd = &cobra.Command{
	Use:   "rm PROVIDER",
	Short: "Forget the stored key for PROVIDER",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ring, err := secrets.Default()
		if err != nil {
			return err
		}
		return ring.Delete(args[0])
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyRmCmd)
	rootCmd.AddCommand(keyCmd)
}

func readKey(cmd *cobra.Command) (string, error) {
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return "", errors.New("no key on stdin")
	}
	return strings.TrimSpace(sc.Text()), nil
}
