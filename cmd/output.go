package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

func printRooms(w io.Writer, rooms []models.Room) error {
	if len(rooms) == 0 {
		_, err := fmt.Fprintln(w, "No rooms found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLOCATION\tPRICE\tTYPE\tBEDS\tBATHS\tMEDIA")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Title, r.Location, formatPrice(r.Price), r.Type, r.Beds, r.Bathrooms, len(r.Images))
	}
	return tw.Flush()
}

func printRoom(w io.Writer, room models.Room, serverBase string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}

	row("ID", room.ID)
	row("Title", room.Title)
	row("Location", room.Location)
	row("Price", formatPrice(room.Price)+" / month")
	row("Type", room.Type)
	row("Beds", strconv.Itoa(room.Beds))
	row("Bathrooms", strconv.Itoa(room.Bathrooms))
	row("Amenities", strings.Join(room.Amenities, ", "))
	row("Description", room.Description)
	row("Requirements", room.OwnerRequirements)
	row("Owner", room.OwnerName)
	row("Contact", room.ContactNumber)
	for i, ref := range room.Images {
		row(fmt.Sprintf("Media %d", i+1), api.ResolveImageURL(serverBase, ref))
	}
	return tw.Flush()
}

func printUser(w io.Writer, user models.User, serverBase string) {
	fmt.Fprintf(w, "%s <%s>\n", user.DisplayName(), user.Email)
	if user.UserType != "" {
		fmt.Fprintf(w, "Account type: %s\n", user.UserType)
	}
	if user.ProfilePicture != "" {
		fmt.Fprintf(w, "Picture: %s\n", api.ResolveImageURL(serverBase, user.ProfilePicture))
	}
}

func formatPrice(price float64) string {
	return "₹" + strconv.FormatFloat(price, 'f', -1, 64)
}

// describeError turns validation failures into one line per field and
// everything else into the message a user should see.
func describeError(err error) string {
	var verr *listing.ValidationError
	if !errors.As(err, &verr) {
		return api.Message(err)
	}

	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names)+1)
	lines = append(lines, "Please fix the following:")
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s: %s", name, verr.Fields[name]))
	}
	return strings.Join(lines, "\n")
}
