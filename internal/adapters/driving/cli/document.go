package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"documents", "doc"},
	Short:   "Manage knowledge-base documents",
	Long:    `List, upload, create, or delete documents in the knowledge base.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the active scope",
	RunE:  runDocumentList,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a file to the knowledge base",
	Long: `Upload a file to the knowledge base.

Files are limited to 10 MB and must have a supported extension
(` + strings.Join(domain.AllowedExtensions(), ", ") + `).
After the upload is accepted, atlas waits for the backend's storage and
catalog to agree before reporting the document as available.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentUpload,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a document from inline content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentCreate,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentStatusCmd = &cobra.Command{
	Use:   "status [doc-id]",
	Short: "Show a document's convergence status",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentStatus,
}

var documentURLCmd = &cobra.Command{
	Use:   "url [doc-id]",
	Short: "Print a short-lived view link for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentURL,
}

// Flags for document commands.
var (
	documentListLimit  int
	documentListOffset int
	uploadCategory     string
	uploadCustom       string
	uploadCompany      bool
	uploadWait         bool
	createContent      string
	createCategory     string
	createCompany      bool
)

func init() {
	documentListCmd.Flags().IntVarP(&documentListLimit, "limit", "n", 50, "maximum number of documents")
	documentListCmd.Flags().IntVar(&documentListOffset, "offset", 0, "pagination offset")

	documentUploadCmd.Flags().StringVar(&uploadCategory, "category", "", "document category")
	documentUploadCmd.Flags().StringVar(&uploadCustom, "custom-category", "", "free-form category label")
	documentUploadCmd.Flags().BoolVar(&uploadCompany, "company", false, "share with the whole organisation")
	documentUploadCmd.Flags().BoolVar(&uploadWait, "wait", true, "wait for the document to become available")

	documentCreateCmd.Flags().StringVar(&createContent, "content", "", "document body (reads stdin when empty)")
	documentCreateCmd.Flags().StringVar(&createCategory, "category", "", "document category")
	documentCreateCmd.Flags().BoolVar(&createCompany, "company", false, "share with the whole organisation")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentStatusCmd)
	documentCmd.AddCommand(documentURLCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	page, err := documentService.List(context.Background(), documentListLimit, documentListOffset)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(page.Documents) == 0 {
		cmd.Println("No documents in the active scope.")
		return nil
	}

	for i := range page.Documents {
		doc := &page.Documents[i]
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Title: %s\n", doc.Title)
		if doc.Category != "" {
			cmd.Printf("    Category: %s\n", doc.Category)
		}
		if doc.CompanyDoc {
			cmd.Println("    Shared: company-wide")
		}

		// Pending convergence shows up inline.
		if status := documentService.Status(doc.ID); status.Pending() {
			cmd.Printf("    Status: %s\n", status)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", page.Total)
	return nil
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	doc, err := documentService.Upload(context.Background(), driving.UploadOptions{
		Filename:       filepath.Base(path),
		Content:        file,
		Size:           info.Size(),
		Category:       uploadCategory,
		CustomCategory: uploadCustom,
		CompanyDoc:     uploadCompany,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s (id %s)\n", doc.Title, doc.ID)
	if uploadWait {
		return waitForStatus(cmd, doc.ID, domain.StatusUploaded)
	}
	return nil
}

func runDocumentCreate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content := createContent
	if content == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	}

	doc, err := documentService.CreateNote(context.Background(), driving.CreateNoteOptions{
		Title:      args[0],
		Category:   createCategory,
		Content:    content,
		CompanyDoc: createCompany,
	})
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	cmd.Printf("Created %s (id %s)\n", doc.Title, doc.ID)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleting document %s...\n", args[0])
	return waitForStatus(cmd, args[0], domain.StatusDeleted)
}

func runDocumentStatus(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	cmd.Printf("Document %s: %s\n", args[0], documentService.Status(args[0]))
	return nil
}

func runDocumentURL(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	viewURL, err := documentService.ViewURL(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get view url: %w", err)
	}

	cmd.Println(viewURL.URL)
	cmd.Printf("Expires in %ds\n", viewURL.ExpiresIn)
	return nil
}

// waitForStatus blocks until the poller reports the wanted terminal state,
// drops the tracking entry, or exhausts its attempt budget.
func waitForStatus(cmd *cobra.Command, id string, want domain.ResourceStatus) error {
	// Slightly longer than the poller's own 30x1s window.
	deadline := time.Now().Add(35 * time.Second)

	for time.Now().Before(deadline) {
		status := documentService.Status(id)
		switch {
		case status == want:
			cmd.Printf("Document %s is %s\n", id, status)
			return nil
		case status == domain.StatusUntracked:
			// Entry dropped after its grace period: converged and gone.
			return nil
		case status.Terminal():
			cmd.Printf("Document %s is %s\n", id, status)
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}

	return fmt.Errorf("%w: document %s", domain.ErrNotConverged, id)
}
