package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vidhi-1412/Realestate/internal/orchestrator"
	"github.com/vidhi-1412/Realestate/pkg/utils"
)

type recordKind struct {
	use     string
	purpose orchestrator.Purpose
}

var (
	purposeProject = recordKind{use: "projects", purpose: orchestrator.PurposeProject}
	purposeClient  = recordKind{use: "clients", purpose: orchestrator.PurposeClient}
)

type cropFlags struct {
	rect string
	zoom float64
	panX float64
	panY float64
}

func (f *cropFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rect, "crop", "", "Explicit crop as x,y,width,height in source pixels")
	cmd.Flags().Float64Var(&f.zoom, "zoom", utils.MinZoom, "Viewport zoom (1-3)")
	cmd.Flags().Float64Var(&f.panX, "pan-x", 0, "Horizontal pan (-1 left, 1 right)")
	cmd.Flags().Float64Var(&f.panY, "pan-y", 0, "Vertical pan (-1 top, 1 bottom)")
}

func (a *app) recordCmd(kind recordKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.use,
		Short: fmt.Sprintf("List or add %s", kind.use),
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s with signed image URLs", kind.use),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kind.purpose == orchestrator.PurposeClient {
				out, err := a.api.ListClients(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			out, err := a.api.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var (
		name, description, designation, imagePath string
		crop                                      cropFlags
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Crop an image, upload it and create the record",
		Long: `Crop an image, upload it and create the record.

Examples:
  admin projects add --name "Harbor View" --description "Waterfront" --image house.jpg
  admin projects add --name "Harbor View" --image house.jpg --zoom 1.5 --pan-x 0.4
  admin clients add --name "Sam" --designation CEO --image face.png --crop 10,10,300,300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return err
			}

			flow := orchestrator.NewFlow(kind.purpose, a.api, a.api, a.images, a.log)
			if err := flow.SelectFile(filepath.Base(imagePath), data); err != nil {
				return err
			}
			if err := flow.OpenCropper(); err != nil {
				return err
			}
			if err := applyCrop(cmd, flow, crop); err != nil {
				return err
			}

			if err := flow.SetName(name); err != nil {
				return err
			}
			if err := flow.SetDescription(description); err != nil {
				return err
			}
			if err := flow.SetDesignation(designation); err != nil {
				return err
			}

			path, err := flow.ConfirmCrop(cmd.Context())
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			if err := flow.Submit(cmd.Context()); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), map[string]string{
				"id":        flow.ResultID(),
				"imagePath": path,
				"crop":      flow.Crop().String(),
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "Display name")
	add.Flags().StringVar(&description, "description", "", "Description text")
	add.Flags().StringVar(&imagePath, "image", "", "Local image file")
	if kind.purpose == orchestrator.PurposeClient {
		add.Flags().StringVar(&designation, "designation", "", "Role or title")
	}
	crop.register(add)
	_ = add.MarkFlagRequired("image")

	cmd.AddCommand(list, add)
	return cmd
}

// applyCrop uses --crop when given, otherwise the viewport flags. With
// neither the centered crop seeded by OpenCropper stays.
func applyCrop(cmd *cobra.Command, flow *orchestrator.Flow, f cropFlags) error {
	if f.rect != "" {
		rect, err := parseRect(f.rect)
		if err != nil {
			return err
		}
		return flow.SetCrop(rect)
	}
	flags := cmd.Flags()
	if flags.Changed("zoom") || flags.Changed("pan-x") || flags.Changed("pan-y") {
		return flow.SetViewport(f.zoom, f.panX, f.panY)
	}
	return nil
}
