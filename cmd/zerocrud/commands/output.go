package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

func printContact(c Contact) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	fmt.Printf("id:    %d\nname:  %s\nemail: %s\nphone: %s\n", c.ID, c.Name, c.Email, c.Phone)
	return nil
}

func printContacts(contacts []Contact) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(contacts)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range contacts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	return w.Flush()
}
