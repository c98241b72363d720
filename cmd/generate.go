package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/medstud/internal/extract"
	"github.com/abhisek/medstud/internal/quiz"
	"github.com/abhisek/medstud/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate questions from a document and print them",
	Long:  "Generate questions from a text or Markdown document. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)

		opts, err := generationOptions(cmd)
		if err != nil {
			return err
		}
		doc, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		gen := buildGenerator(ctx, cmd, s.EventRepo(), logger)
		items := gen.Generate(ctx, doc, opts)
		if err := quiz.SaveItems(ctx, s.ReviewRepo(), items); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeItemsJSON(cmd.OutOrStdout(), doc, items)
		}
		writeItemsText(cmd.OutOrStdout(), doc, items)
		return nil
	},
}

type itemJSON struct {
	ID string `json:"id"`
	quizgen.Item
}

func writeItemsJSON(w io.Writer, doc extract.Result, items []quizgen.Item) error {
	out := struct {
		Items    []itemJSON   `json:"items"`
		Headings []string     `json:"headings"`
		Meta     extract.Meta `json:"meta"`
	}{
		Items:    make([]itemJSON, len(items)),
		Headings: doc.Headings,
		Meta:     doc.Meta,
	}
	for i, it := range items {
		out.Items[i] = itemJSON{ID: it.ID(), Item: it}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeItemsText(w io.Writer, doc extract.Result, items []quizgen.Item) {
	if len(items) == 0 {
		msg := "No questions could be generated."
		if doc.Meta.Note != nil {
			msg += " " + *doc.Meta.Note
		}
		fmt.Fprintln(w, msg)
		return
	}

	for i, it := range items {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, it.Type, it.Prompt)
		for j, opt := range it.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'A'+j, opt)
		}
		fmt.Fprintf(w, "   Answer: %s\n", it.Answer)
		if it.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", it.Explanation)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "%d questions from %d snippets (%s)\n", len(items), len(doc.Chunks), doc.Meta.Model)
}

func init() {
	addDocumentFlags(generateCmd)
	addGenerationFlags(generateCmd)
	generateCmd.Flags().Bool("json", false, "Print items as JSON")
}
