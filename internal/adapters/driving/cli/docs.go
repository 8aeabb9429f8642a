package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/helmsman-ai/helmsman/internal/adapters/driven/config/file"
	"github.com/helmsman-ai/helmsman/internal/watch"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the indexed document corpus",
	Long:  `Index, list, remove and auto-index documents used by the DOCS route.`,
}

var docsIndexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Index a document file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsIndex,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE:  runDocsList,
}

var docsRmCmd = &cobra.Command{
	Use:   "rm [doc-id]",
	Short: "Remove a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRm,
}

var docsWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Auto-index a documents folder",
	Long: `Watch a directory and keep the corpus in sync: supported files are
indexed when created or written, and removed when deleted. Blocks until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocsWatch,
}

// fileMIMETypes maps extensions for the index command.
var fileMIMETypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func init() {
	docsIndexCmd.Flags().String("name", "", "Document title (defaults to the file name)")
	docsCmd.AddCommand(docsIndexCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsRmCmd)
	docsCmd.AddCommand(docsWatchCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsIndex(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	mimeType, ok := fileMIMETypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	record, err := documentService.Index(cmd.Context(), name, content, mimeType)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %q: %d chunk(s)\n", record.Name, record.ChunkCount)
	cmd.Printf("ID: %s\n", record.ID)
	return nil
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	records, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for _, r := range records {
		cmd.Printf("  %s\n", r.ID)
		cmd.Printf("    Name: %s\n", r.Name)
		cmd.Printf("    Chunks: %d\n", r.ChunkCount)
		cmd.Println()
	}
	cmd.Printf("Total: %d document(s)\n", len(records))
	return nil
}

func runDocsRm(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing document: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runDocsWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		dir = configStore.GetString(configfile.KeyDocsWatchDir)
	}
	if dir == "" {
		return errors.New("no directory given and docs.watch_dir is not configured")
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	watcher := watch.New(documentService, dir, 500*time.Millisecond)
	err := watcher.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
