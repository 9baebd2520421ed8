package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the knowledge-base assistant",
	Long: `Ask the assistant a question against your knowledge base.

The answer is grounded in the documents visible in your active scope
(see 'atlas scope'). Use --conversation to continue an existing thread.

Examples:
  atlas ask "what is our expense policy?"
  atlas ask --conversation 42 "and for travel abroad?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var conversationCmd = &cobra.Command{
	Use:     "conversation",
	Aliases: []string{"conversations", "conv"},
	Short:   "Manage chat conversations",
	Long:    `List, show, rename, pin, or delete chat conversations.`,
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE:  runConversationList,
}

var conversationShowCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationShow,
}

var conversationRenameCmd = &cobra.Command{
	Use:   "rename [conversation-id] [title]",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runConversationRename,
}

var conversationPinCmd = &cobra.Command{
	Use:   "pin [conversation-id]",
	Short: "Pin a conversation to the top of the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationPin,
}

var conversationUnpinCmd = &cobra.Command{
	Use:   "unpin [conversation-id]",
	Short: "Unpin a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationUnpin,
}

var conversationDeleteCmd = &cobra.Command{
	Use:   "delete [conversation-id]",
	Short: "Delete a conversation and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationDelete,
}

// askConversationID continues an existing thread.
var askConversationID string

func init() {
	askCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "", "conversation id to continue")

	conversationCmd.AddCommand(conversationListCmd)
	conversationCmd.AddCommand(conversationShowCmd)
	conversationCmd.AddCommand(conversationRenameCmd)
	conversationCmd.AddCommand(conversationPinCmd)
	conversationCmd.AddCommand(conversationUnpinCmd)
	conversationCmd.AddCommand(conversationDeleteCmd)

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(conversationCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()
	if askConversationID != "" {
		if _, err := chatService.Open(ctx, askConversationID); err != nil {
			return fmt.Errorf("open conversation: %w", err)
		}
	} else {
		chatService.NewConversation()
	}

	reply, err := chatService.Send(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(strings.TrimSpace(reply.Content))
	if len(reply.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range reply.Sources {
			cmd.Printf("  - %s\n", source.Title)
		}
	}
	if reply.ConversationID != "" {
		cmd.Println()
		cmd.Printf("Conversation: %s\n", reply.ConversationID)
	}
	return nil
}

func runConversationList(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	conversations, err := chatService.Conversations(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		cmd.Println("No conversations yet. Start one with 'atlas ask'.")
		return nil
	}

	for i := range conversations {
		pin := " "
		if conversations[i].Pinned {
			pin = "*"
		}
		cmd.Printf("  %s %s  %s\n", pin, conversations[i].ID, conversations[i].Title)
		if conversations[i].Preview != "" {
			cmd.Printf("      %s\n", conversations[i].Preview)
		}
	}
	cmd.Println()
	cmd.Printf("Total: %d conversations\n", len(conversations))
	return nil
}

func runConversationShow(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	messages, err := chatService.Open(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	for i := range messages {
		cmd.Printf("[%s]\n", messages[i].Role)
		cmd.Println(strings.TrimSpace(messages[i].Content))
		cmd.Println()
	}
	return nil
}

func runConversationRename(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.Rename(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}
	cmd.Printf("Renamed conversation %s\n", args[0])
	return nil
}

func runConversationPin(cmd *cobra.Command, args []string) error {
	return setPinned(cmd, args[0], true)
}

func runConversationUnpin(cmd *cobra.Command, args []string) error {
	return setPinned(cmd, args[0], false)
}

func setPinned(cmd *cobra.Command, id string, pinned bool) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.SetPinned(context.Background(), id, pinned); err != nil {
		return fmt.Errorf("pin update failed: %w", err)
	}
	if pinned {
		cmd.Printf("Pinned conversation %s\n", id)
	} else {
		cmd.Printf("Unpinned conversation %s\n", id)
	}
	return nil
}

func runConversationDelete(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted conversation %s\n", args[0])
	return nil
}
