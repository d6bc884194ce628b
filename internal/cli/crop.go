package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidhi-1412/Realestate/pkg/utils"
)

// cropCmd renders a crop locally, the same bytes add would upload.
func (a *app) cropCmd() *cobra.Command {
	var (
		in, out, aspect string
		crop            cropFlags
	)
	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Crop an image locally without uploading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ratio, err := aspectRatio(aspect)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			src, err := a.images.DecodeImage(data)
			if err != nil {
				return err
			}

			b := src.Bounds()
			rect := utils.AreaFromViewport(b.Dx(), b.Dy(), ratio, crop.zoom, crop.panX, crop.panY)
			if crop.rect != "" {
				if rect, err = parseRect(crop.rect); err != nil {
					return err
				}
			}

			jpeg, err := a.images.Resolve(src, rect)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, jpeg, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d bytes\n", out, rect, len(jpeg))
			return err
		},
	}
	cmd.Flags().StringVar(&in, "image", "", "Source image file")
	cmd.Flags().StringVarP(&out, "out", "o", utils.CroppedFilename, "Output JPEG path")
	cmd.Flags().StringVar(&aspect, "aspect", "project", "Aspect preset: project (4:3) or client (1:1)")
	crop.register(cmd)
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func aspectRatio(name string) (float64, error) {
	switch name {
	case "project":
		return utils.AspectProject, nil
	case "client":
		return utils.AspectClient, nil
	}
	return 0, fmt.Errorf("unknown aspect %q (want project or client)", name)
}
