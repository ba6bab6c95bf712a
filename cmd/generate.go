package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizai/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz and print it as JSON",
	Long: `Generate a quiz and print it as JSON.

With server.redis_addr (QUIZAI_REDIS_ADDR) set, results are cached in Redis
and shared with later runs and with quizai serve's store. --refresh skips
that cache and overwrites the entry. Without Redis every run starts with an
empty cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		refresh, _ := cmd.Flags().GetBool("refresh")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cache, closeCache, err := newSharedCache(cmd.Context())
		if err != nil {
			return err
		}
		defer closeCache()

		var opts []quizgen.GeneratorOption
		if cache != nil {
			opts = append(opts, quizgen.WithCache(cache))
		}
		gen, _, err := newGenerator(cmd.Context(), st, opts...)
		if err != nil {
			return err
		}
		if refresh {
			gen.RequestRefresh()
		}

		res, genErr := gen.GenerateDetailed(cmd.Context(), topic, count)
		if genErr != nil {
			fmt.Fprintln(os.Stderr, "Erro ao gerar quiz:", genErr)
		}
		for _, r := range res.Repairs {
			fmt.Fprintln(os.Stderr, "repair:", r)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res.Quiz); err != nil {
			return fmt.Errorf("encode quiz: %w", err)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Quiz topic (blank for general IT)")
	generateCmd.Flags().IntP("count", "n", 3, "Number of questions (1-10)")
	generateCmd.Flags().Bool("refresh", false, "Bypass the shared Redis cache and overwrite its entry")
}
