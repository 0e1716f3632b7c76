package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/agenda/internal/core/domain"
)

// stdinIsTerminal reports whether confirmation prompts can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var (
	listJSON    bool
	importCount int
	importJSON  bool
	deleteYes   bool
	editName    string
	editPhone   string
	editEmail   string
	linkOnly    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Long:  `Lists all stored contacts ordered by name.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import contacts from the random-user service",
	Long: `Fetches random users from the configured service and stores them as
new contacts. Existing contacts are never merged or replaced.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a contact",
	Long:  `Updates the name, phone or email of a contact. Only the given flags change.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var callCmd = &cobra.Command{
	Use:   "call [id]",
	Short: "Call a contact",
	Long:  `Opens the system dialer with the contact's phone number.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCall,
}

var whatsappCmd = &cobra.Command{
	Use:   "whatsapp [id]",
	Short: "Message a contact on WhatsApp",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhatsApp,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and contact count",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output contacts as JSON")

	importCmd.Flags().IntVarP(&importCount, "count", "n", 0, "number of contacts to import (default from settings)")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "output imported contacts as JSON")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	editCmd.Flags().StringVar(&editName, "name", "", "new display name")
	editCmd.Flags().StringVar(&editPhone, "phone", "", "new phone number")
	editCmd.Flags().StringVar(&editEmail, "email", "", "new email address")

	callCmd.Flags().BoolVar(&linkOnly, "print", false, "print the link instead of opening it")
	whatsappCmd.Flags().BoolVar(&linkOnly, "print", false, "print the link instead of opening it")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(whatsappCmd)
	rootCmd.AddCommand(statusCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if contactRepository == nil {
		return errors.New("contact repository not configured")
	}

	contacts, err := contactRepository.List(contextOf(cmd))
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if listJSON {
		return outputContactsJSON(cmd, contacts)
	}
	if len(contacts) == 0 {
		cmd.Println("No contacts. Run 'agenda import' to add some.")
		return nil
	}
	outputContactsTable(cmd, contacts)
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	if contactRepository == nil {
		return errors.New("contact repository not configured")
	}

	count := importCount
	if count <= 0 {
		count = domain.DefaultImportCount
		if settingsService != nil {
			if s, err := settingsService.Get(); err == nil {
				count = s.Import.Count
			}
		}
	}

	imported, err := contactRepository.Import(contextOf(cmd), count)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if importJSON {
		return outputContactsJSON(cmd, imported)
	}
	cmd.Printf("Imported %d contacts.\n", len(imported))
	if len(imported) > 0 {
		cmd.Println()
		outputContactsTable(cmd, imported)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	contact, err := lookupContact(cmd, args[0])
	if err != nil {
		return err
	}

	if !deleteYes {
		if !stdinIsTerminal() {
			return errors.New("refusing to delete without --yes when stdin is not a terminal")
		}
		cmd.Printf("Delete %s (%s)? [y/N]: ", contact.Name, contact.ID)
		if !confirmed(bufio.NewReader(cmd.InOrStdin())) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := contactRepository.Delete(contextOf(cmd), *contact); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted %s.\n", contact.Name)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("phone") && !flags.Changed("email") {
		return errors.New("nothing to change: pass --name, --phone or --email")
	}

	contact, err := lookupContact(cmd, args[0])
	if err != nil {
		return err
	}

	if flags.Changed("name") {
		contact.Name = editName
	}
	if flags.Changed("phone") {
		contact.Phone = editPhone
	}
	if flags.Changed("email") {
		contact.Email = editEmail
	}

	if err := contactRepository.Update(contextOf(cmd), *contact); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	cmd.Printf("Updated %s.\n", contact.Name)
	return nil
}

func runCall(cmd *cobra.Command, args []string) error {
	return runContactAction(cmd, args[0], "call")
}

func runWhatsApp(cmd *cobra.Command, args []string) error {
	return runContactAction(cmd, args[0], "whatsapp")
}

func runContactAction(cmd *cobra.Command, id, action string) error {
	if actionService == nil {
		return errors.New("action service not configured")
	}
	contact, err := lookupContact(cmd, id)
	if err != nil {
		return err
	}

	var link string
	if action == "call" {
		link, err = actionService.CallURL(*contact)
	} else {
		link, err = actionService.MessageURL(*contact)
	}
	if err != nil {
		return fmt.Errorf("cannot %s %s: %w", action, contact.Name, err)
	}

	if linkOnly {
		cmd.Println(link)
		return nil
	}

	ctx := contextOf(cmd)
	if action == "call" {
		err = actionService.Call(ctx, *contact)
	} else {
		err = actionService.Message(ctx, *contact)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", link, err)
	}
	cmd.Printf("Opened %s\n", link)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := contextOf(cmd)

	cmd.Println("Status")
	cmd.Println("======")

	if connectivity != nil {
		state, err := connectivity.Current(ctx)
		if err != nil {
			cmd.Printf("  Network:  unknown (%v)\n", err)
		} else {
			cmd.Printf("  Network:  %s\n", state)
		}
	} else {
		cmd.Println("  Network:  not monitored")
	}

	if contactRepository != nil {
		contacts, err := contactRepository.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to count contacts: %w", err)
		}
		cmd.Printf("  Contacts: %d\n", len(contacts))
	}
	return nil
}

func lookupContact(cmd *cobra.Command, id string) (*domain.Contact, error) {
	if contactRepository == nil {
		return nil, errors.New("contact repository not configured")
	}
	contact, err := contactRepository.Get(contextOf(cmd), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("contact %s not found", id)
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

func confirmed(reader *bufio.Reader) bool {
	answer := strings.ToLower(readLine(reader))
	return answer == "y" || answer == "yes"
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

type contactJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

func outputContactsJSON(cmd *cobra.Command, contacts []domain.Contact) error {
	out := make([]contactJSON, len(contacts))
	for i, c := range contacts {
		out[i] = contactJSON{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, PictureURL: c.PictureURL}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputContactsTable(cmd *cobra.Command, contacts []domain.Contact) {
	for i := range contacts {
		c := &contacts[i]
		cmd.Printf("  %s  %s\n", c.ID, c.Name)
		if c.Phone != "" {
			cmd.Printf("      Phone: %s\n", c.Phone)
		}
		if c.Email != "" {
			cmd.Printf("      Email: %s\n", c.Email)
		}
	}
}
