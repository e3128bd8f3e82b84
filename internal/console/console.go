// Package console is the interactive surface. It only gathers and renders
// text; every value read here is untrusted and goes through the inventory
// normalizers before it reaches the store.
package console

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stockbook/internal"
	"stockbook/internal/config"
	"stockbook/internal/inventory"
	"stockbook/internal/storage"
)

type Console struct {
	db  *storage.DB
	cfg config.Config
	in  *bufio.Scanner
	out io.Writer
}

func New(db *storage.DB, cfg config.Config, in io.Reader, out io.Writer) *Console {
	return &Console{db: db, cfg: cfg, in: bufio.NewScanner(in), out: out}
}

// Run drives the menu loop until the user quits or input ends.
func (c *Console) Run() error {
	for {
		fmt.Fprintln(c.out, "Menu:")
		fmt.Fprintln(c.out, "v - View item details by ID")
		fmt.Fprintln(c.out, "a - Add or update an item")
		fmt.Fprintln(c.out, "b - Backup the catalog")
		fmt.Fprintln(c.out, "q - Exit")

		choice, ok := c.prompt("Enter your choice: ")
		if !ok {
			return nil
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "v":
			if err := c.ViewByID(); err != nil {
				return err
			}
		case "a":
			if err := c.AddItem(); err != nil {
				return err
			}
		case "b":
			if err := c.Backup(); err != nil {
				return err
			}
		case "q":
			fmt.Fprintln(c.out, "Have a nice day")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please enter v, a, b or q.")
		}
	}
}

// ViewByID prompts for an item id until a match is found or the user
// returns to the menu with empty input. A missed lookup is an ordinary
// "no match" outcome, not an error.
func (c *Console) ViewByID() error {
	for {
		input, ok := c.prompt("Enter the item ID to search (press Enter to go back to menu): ")
		if !ok || strings.TrimSpace(input) == "" {
			return nil
		}

		id, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			fmt.Fprintln(c.out, "Invalid input. Please enter a valid item ID.")
			continue
		}

		item, err := c.db.GetItemByID(id)
		if err != nil {
			return err
		}
		if item == nil {
			fmt.Fprintf(c.out, "No matching item with ID '%d' found. Please try again.\n", id)
			continue
		}

		fmt.Fprintln(c.out, "Item found with matching ID:")
		fmt.Fprintf(c.out, "ID: %d  Name: %s  Quantity: %d  Price: %s  Date Updated: %s\n",
			item.ID, item.Name, item.Quantity, inventory.FormatCents(item.PriceCents), item.UpdatedAt.Format("January 2, 2006"))
		return nil
	}
}

// AddItem gathers a full record, re-prompting per field on bad input, and
// applies it after confirmation. The entry date is validated and shown in
// the review; the stored record is stamped with the time of the edit.
func (c *Console) AddItem() error {
	for {
		name, ok := c.prompt("Enter the item name (press Enter to go back to the menu): ")
		if !ok {
			return nil
		}
		name = strings.TrimSpace(name)
		if name == "" {
			fmt.Fprintln(c.out, "Returning to the menu.")
			return nil
		}

		var entryDate time.Time
		for {
			input, ok := c.prompt("Enter the entry date (e.g., January 1, 2022): ")
			if !ok {
				return nil
			}
			parsed, err := inventory.ParseEntryDate(input)
			if err != nil {
				fmt.Fprintln(c.out, "Invalid date format. Please try again.")
				continue
			}
			entryDate = parsed
			break
		}

		var priceCents int64
		for {
			input, ok := c.prompt("Enter the price (e.g., 3.19): ")
			if !ok {
				return nil
			}
			parsed, err := inventory.ParsePrice(input)
			if err != nil {
				fmt.Fprintln(c.out, "Invalid price format. Please try again.")
				continue
			}
			priceCents = parsed
			break
		}

		var quantity int
		for {
			input, ok := c.prompt("Enter the item quantity: ")
			if !ok {
				return nil
			}
			parsed, err := inventory.ParseQuantity(input)
			if err != nil {
				fmt.Fprintln(c.out, "Quantity must be a non-negative integer. Please try again.")
				continue
			}
			quantity = parsed
			break
		}

		fmt.Fprintln(c.out, "\nPlease review the information:")
		fmt.Fprintf(c.out, "\nName: %s\n", name)
		fmt.Fprintf(c.out, "\nEntry Date: %s\n", entryDate.Format("January 2, 2006"))
		fmt.Fprintf(c.out, "\nPrice: %s\n", inventory.FormatCents(priceCents))
		fmt.Fprintf(c.out, "\nQuantity: %d\n", quantity)

	confirm:
		for {
			fmt.Fprintln(c.out)
			confirmation, ok := c.prompt("Are you sure you have filled in the information correctly? (Yes/No) (press Enter to go back to the menu): ")
			if !ok {
				return nil
			}

			switch strings.ToLower(strings.TrimSpace(confirmation)) {
			case "":
				fmt.Fprintln(c.out, "Returning to the menu.")
				return nil
			case "yes":
				outcome, err := inventory.ApplyEdit(c.db, name, quantity, priceCents, time.Now())
				if err != nil {
					return err
				}
				if outcome == internal.EditUpdated {
					fmt.Fprintf(c.out, "Updated existing item: %s\n", name)
				} else {
					fmt.Fprintln(c.out, "Item added successfully!")
				}
				return nil
			case "no":
				fmt.Fprintln(c.out, "Please fill in the information again.")
				fmt.Fprintln(c.out)
				break confirm
			default:
				fmt.Fprintln(c.out, "Invalid input. Please enter either 'Yes' or 'No'.")
				fmt.Fprintln(c.out)
			}
		}
	}
}

// Backup writes a deduplicated snapshot of the catalog to the output dir.
func (c *Console) Backup() error {
	rows, err := inventory.Snapshot(c.db)
	if err != nil {
		return err
	}
	outputPath := filepath.Join(c.cfg.OutputDir, "backup.csv")
	if err := inventory.WriteCSV(rows, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Backed up %d items to %s\n", len(rows), outputPath)
	return nil
}

func (c *Console) prompt(message string) (string, bool) {
	fmt.Fprint(c.out, message)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}
