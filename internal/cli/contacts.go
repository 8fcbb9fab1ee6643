package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/stayintouch/internal/calendar"
	"github.com/lazypower/stayintouch/internal/store"
	"github.com/lazypower/stayintouch/internal/vcard"
)

var (
	importDryRun bool
	calendarOut  string
)

var importCmd = &cobra.Command{
	Use:   "import <file.vcf>",
	Short: "Import contacts from a vCard export",
	Long:  "Import contacts from a vCard (.vcf) file. Contacts whose name already exists are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open vcard: %w", err)
		}
		defer f.Close()

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := importContacts(db, f, importDryRun)
		if err != nil {
			return err
		}
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d contacts (%d duplicates, %d cards without a name skipped)\n",
			verb, res.Created, res.Duplicates, res.Nameless)
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Export birthdays as an iCalendar file",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		w := io.Writer(os.Stdout)
		if calendarOut != "" && calendarOut != "-" {
			f, err := os.Create(calendarOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", calendarOut, err)
			}
			defer f.Close()
			w = f
		}
		if err := writeCalendar(w, db, time.Now()); err != nil {
			return err
		}
		if calendarOut != "" && calendarOut != "-" {
			fmt.Fprintf(os.Stderr, "wrote %s\n", calendarOut)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing")
	calendarCmd.Flags().StringVarP(&calendarOut, "output", "o", "", "Output file (default stdout)")
}

type importResult struct {
	Created    int
	Duplicates int
	Nameless   int
}

// importContacts creates every parsed card whose name is not taken yet,
// including names repeated within the file.
func importContacts(db *store.DB, r io.Reader, dryRun bool) (importResult, error) {
	inputs, skipped, err := vcard.Parse(r)
	if err != nil {
		return importResult{}, err
	}
	res := importResult{Nameless: skipped}
	seen := map[string]bool{}

	for _, in := range inputs {
		key := normalizeName(in.Name)
		exists, err := db.NameExists(in.Name, 0)
		if err != nil {
			return res, err
		}
		if exists || seen[key] {
			res.Duplicates++
			continue
		}
		seen[key] = true
		if !dryRun {
			if _, err := db.CreateContact(in); err != nil {
				return res, fmt.Errorf("create %q: %w", in.Name, err)
			}
		}
		res.Created++
	}
	return res, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func writeCalendar(w io.Writer, db *store.DB, now time.Time) error {
	contacts, err := db.ListContacts()
	if err != nil {
		return err
	}
	data, err := calendar.Build(contacts, now)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
