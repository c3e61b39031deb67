package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/dashboard"
	"github.com/SUMITRAUTHAN09/rosca/internal/export"
	"github.com/SUMITRAUTHAN09/rosca/internal/images"
	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

func newRoomsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Browse, add and manage room listings",
	}

	cmd.AddCommand(newRoomsListCmd(a))
	cmd.AddCommand(newRoomsGetCmd(a))
	cmd.AddCommand(newRoomsMineCmd(a))
	cmd.AddCommand(newRoomsAddCmd(a))
	cmd.AddCommand(newRoomsUpdateCmd(a))
	cmd.AddCommand(newRoomsDeleteCmd(a))
	cmd.AddCommand(newRoomsExportCmd(a))
	cmd.AddCommand(newRoomsMediaCmd(a))

	return cmd
}

func newRoomsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := a.client.ListRooms(cmd.Context())
			if err != nil {
				return errors.New(api.Message(err))
			}
			return printRooms(cmd.OutOrStdout(), rooms)
		},
	}
}

func newRoomsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show one room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := a.client.GetRoom(cmd.Context(), args[0])
			if err != nil {
				return errors.New(api.Message(err))
			}
			return printRoom(cmd.OutOrStdout(), room, a.cfg.ServerBaseURL())
		},
	}
}

// loadDashboard returns a dashboard in Ready with the user's rooms
func loadDashboard(ctx context.Context, a *app, cmd *cobra.Command) (*dashboard.Reconciler, error) {
	dash := a.dashboard(consoleNotifier{w: cmd.ErrOrStderr()})
	if err := dash.LoadProfile(ctx); err != nil {
		dash.Close()
		if errors.Is(err, api.ErrAuthRequired) || api.IsUnauthorized(err) {
			return nil, errors.New("not signed in, run: rosca login")
		}
		return nil, fmt.Errorf("failed to load your rooms: %s", api.Message(err))
	}
	return dash, nil
}

func newRoomsMineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the rooms you have listed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := loadDashboard(cmd.Context(), a, cmd)
			if err != nil {
				return err
			}
			defer dash.Close()
			return printRooms(cmd.OutOrStdout(), dash.Snapshot().Rooms)
		},
	}
}

// roomFlags are the form fields shared by add and update. Only flags the
// user set are applied.
type roomFlags struct {
	title        string
	location     string
	price        string
	roomType     string
	beds         string
	bathrooms    string
	description  string
	requirements string
	contact      string
	ownerName    string
	amenities    []string
}

func (f *roomFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "Room title (letters and numbers)")
	flags.StringVar(&f.location, "location", "", "Location (letters, numbers and commas)")
	flags.StringVar(&f.price, "price", "", "Monthly rent")
	flags.StringVar(&f.roomType, "type", "", "Room type: single room, double room, shared room, flat or apartments")
	flags.StringVar(&f.beds, "beds", "", "Number of beds")
	flags.StringVar(&f.bathrooms, "bathrooms", "", "Number of bathrooms")
	flags.StringVar(&f.description, "description", "", "Description")
	flags.StringVar(&f.requirements, "requirements", "", "Owner requirements")
	flags.StringVar(&f.contact, "contact", "", "10 digit contact number")
	flags.StringVar(&f.ownerName, "owner-name", "", "Owner name")
	flags.StringSliceVar(&f.amenities, "amenity", nil, "Amenity, repeatable: wifi, parking, AC, geysers, tv, fridge, kitchen, laundry")
}

func (f *roomFlags) fields(cmd *cobra.Command) listing.Fields {
	set := func(name string, value *string) *string {
		if cmd.Flags().Changed(name) {
			return value
		}
		return nil
	}

	fields := listing.Fields{
		Title:             set("title", &f.title),
		Location:          set("location", &f.location),
		Price:             set("price", &f.price),
		Type:              set("type", &f.roomType),
		Beds:              set("beds", &f.beds),
		Bathrooms:         set("bathrooms", &f.bathrooms),
		Description:       set("description", &f.description),
		OwnerRequirements: set("requirements", &f.requirements),
		ContactNumber:     set("contact", &f.contact),
		OwnerName:         set("owner-name", &f.ownerName),
	}
	if cmd.Flags().Changed("amenity") {
		fields.Amenities = f.amenities
	}
	return fields
}

// update converts the set flags into a room edit
func (f *roomFlags) update(cmd *cobra.Command) (listing.RoomUpdate, error) {
	fields := f.fields(cmd)
	verr := &listing.ValidationError{}

	u := listing.RoomUpdate{
		Title:             fields.Title,
		Location:          fields.Location,
		Type:              fields.Type,
		Description:       fields.Description,
		OwnerRequirements: fields.OwnerRequirements,
		ContactNumber:     fields.ContactNumber,
		OwnerName:         fields.OwnerName,
		Amenities:         fields.Amenities,
	}
	if fields.Price != nil {
		price, msg := listing.ParsePrice(*fields.Price)
		if msg != "" {
			verr.Add(listing.FieldPrice, msg)
		} else {
			u.Price = &price
		}
	}
	if fields.Beds != nil {
		beds, msg := listing.ParseCount(*fields.Beds)
		if msg != "" {
			verr.Add(listing.FieldBeds, msg)
		} else {
			u.Beds = &beds
		}
	}
	if fields.Bathrooms != nil {
		baths, msg := listing.ParseCount(*fields.Bathrooms)
		if msg != "" {
			verr.Add(listing.FieldBathrooms, msg)
		} else {
			u.Bathrooms = &baths
		}
	}

	if verr = verr.OrNil(); verr != nil {
		return u, verr
	}
	return u, nil
}

func newRoomsAddCmd(a *app) *cobra.Command {
	var form roomFlags
	var files []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a new room",
		Long: `Validates the room and uploads it together with its photos and videos.

Up to 10 media files are sent in the order given; the first is the cover.
Images may be up to 5 MB and videos up to 50 MB. Files that are not images
or videos, or are too large, are skipped with a message.`,
		Example: `  rosca rooms add --title "Sunny Room" --location "Clement Town, Dehradun" \
    --price 4500 --type "single room" --beds 1 --bathrooms 1 \
    --contact 9876543210 --owner-name "Asha Rao" \
    --amenity wifi --amenity AC --media front.jpg --media tour.mp4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := listing.NewDraft()
			if verr := draft.Apply(form.fields(cmd)); verr != nil {
				return errors.New(describeError(verr))
			}

			candidates := make([]media.FileHandle, 0, len(files))
			for _, path := range files {
				file, err := media.OpenFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
					continue
				}
				candidates = append(candidates, file)
			}
			result := draft.Media.AddFiles(candidates)
			for _, rej := range result.Rejected {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", rej.Error())
			}
			for _, item := range result.Dropped {
				fmt.Fprintf(cmd.ErrOrStderr(), "! %s skipped, at most %d files per room\n", item.Name, media.MaxItems)
			}

			dash := a.dashboard(consoleNotifier{w: cmd.ErrOrStderr()})
			defer dash.Close()
			room, err := dash.CreateRoom(cmd.Context(), draft)
			if err != nil {
				return errors.New(describeError(err))
			}
			return printRoom(cmd.OutOrStdout(), room, a.cfg.ServerBaseURL())
		},
	}

	form.register(cmd)
	cmd.Flags().StringSliceVarP(&files, "media", "m", nil, "Photo or video to upload, repeatable")

	return cmd
}

func newRoomsUpdateCmd(a *app) *cobra.Command {
	var form roomFlags

	cmd := &cobra.Command{
		Use:     "update <room-id>",
		Short:   "Edit one of your rooms",
		Long:    `Sends only the fields given as flags. Media cannot be changed here.`,
		Example: `  rosca rooms update 665f1c --price 5000 --amenity wifi --amenity parking`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := form.update(cmd)
			if err != nil {
				return errors.New(describeError(err))
			}

			dash, err := loadDashboard(cmd.Context(), a, cmd)
			if err != nil {
				return err
			}
			defer dash.Close()

			room, err := dash.UpdateRoom(cmd.Context(), args[0], update)
			if err != nil {
				if errors.Is(err, dashboard.ErrUnknownRoom) {
					return fmt.Errorf("room %s is not one of your rooms", args[0])
				}
				return errors.New(describeError(err))
			}
			return printRoom(cmd.OutOrStdout(), room, a.cfg.ServerBaseURL())
		},
	}

	form.register(cmd)

	return cmd
}

func newRoomsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete one of your rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := loadDashboard(cmd.Context(), a, cmd)
			if err != nil {
				return err
			}
			defer dash.Close()

			confirm := dashboard.Confirmer(dashboard.AlwaysConfirm)
			if !yes {
				p := newPrompter(cmd)
				confirm = dashboard.ConfirmFunc(func(_ context.Context, room models.Room) (bool, error) {
					return p.yes(fmt.Sprintf("Are you sure you want to delete %q?", room.Title))
				})
			}

			err = dash.DeleteRoom(cmd.Context(), args[0], confirm)
			switch {
			case errors.Is(err, dashboard.ErrCancelled):
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			case errors.Is(err, dashboard.ErrUnknownRoom):
				return fmt.Errorf("room %s is not one of your rooms", args[0])
			case err != nil:
				return errors.New(api.Message(err))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}

func newRoomsExportCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "export <file.yaml|file.parquet>",
		Short: "Export rooms to YAML or Parquet",
		Long: `Writes your rooms, or every listed room with --all, to a file. The format
follows the extension: .yaml/.yml or .parquet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := export.FormatFromPath(args[0]); err != nil {
				return err
			}

			var rooms []models.Room
			owner := ""
			if all {
				var err error
				rooms, err = a.client.ListRooms(cmd.Context())
				if err != nil {
					return errors.New(api.Message(err))
				}
			} else {
				dash, err := loadDashboard(cmd.Context(), a, cmd)
				if err != nil {
					return err
				}
				defer dash.Close()
				snap := dash.Snapshot()
				rooms = snap.Rooms
				if snap.User != nil {
					owner = snap.User.ID
				}
			}

			if err := export.WriteFile(args[0], export.NewSnapshot(a.cfg.API.BaseURL, owner, rooms)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rooms to %s\n", len(rooms), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Export every listed room instead of only yours")

	return cmd
}

func newRoomsMediaCmd(a *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "media <room-id>",
		Short: "Download the photos and videos of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := a.client.GetRoom(cmd.Context(), args[0])
			if err != nil {
				return errors.New(api.Message(err))
			}

			downloads, err := images.NewFetcher().FetchRoomMedia(cmd.Context(), a.cfg.ServerBaseURL(), room, outputDir)
			for _, d := range downloads {
				if d.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", d.URL, d.Err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), d.Path)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to save media into")

	return cmd
}
