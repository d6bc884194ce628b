// Package cli is the admin command line for the content API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/client"
	"github.com/vidhi-1412/Realestate/pkg/logger"
	"github.com/vidhi-1412/Realestate/pkg/utils"
)

const defaultAPIURL = "http://localhost:8080/api"

type app struct {
	v      *viper.Viper
	api    *client.Client
	log    *zap.Logger
	images *utils.ImageProcessor
}

// NewRootCmd builds the command tree. Flags fall back to ADMIN_* environment
// variables, e.g. ADMIN_API_URL and ADMIN_TOKEN.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("admin")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:               "admin",
		Short:             "Manage projects, clients and inbound submissions",
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "Base URL of the content API")
	flags.String("token", "", "Bearer token sent with every request")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.Int("jpeg-quality", utils.DefaultJPEGQuality, "JPEG quality for cropped uploads")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		a.recordCmd(purposeProject),
		a.recordCmd(purposeClient),
		a.contactCmd(),
		a.newsletterCmd(),
		a.cropCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	log, err := logger.New("development", a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.log = log
	a.images = utils.NewImageProcessor(a.v.GetInt("jpeg-quality"), log)

	var opts []client.Option
	if token := a.v.GetString("token"); token != "" {
		opts = append(opts, client.WithBearerToken(token))
	}
	a.api = client.New(a.v.GetString("api-url"), opts...)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseRect reads "x,y,width,height".
func parseRect(s string) (utils.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return utils.Rect{}, fmt.Errorf("crop must be x,y,width,height: %q", s)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return utils.Rect{}, fmt.Errorf("crop must be x,y,width,height: %q", s)
		}
		n[i] = v
	}
	r := utils.Rect{X: n[0], Y: n[1], Width: n[2], Height: n[3]}
	if r.Empty() {
		return utils.Rect{}, fmt.Errorf("%w: %s", utils.ErrInvalidCrop, r)
	}
	return r, nil
}
