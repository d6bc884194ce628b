package cli

import (
	"github.com/spf13/cobra"

	"github.com/vidhi-1412/Realestate/internal/domain"
)

func (a *app) contactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "List or send contact form submissions",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contact submissions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.api.ListContactSubmissions(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var in domain.ContactInput
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Send a contact form submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.api.SubmitContact(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	submit.Flags().StringVar(&in.FullName, "full-name", "", "Sender name")
	submit.Flags().StringVar(&in.Email, "email", "", "Sender email")
	submit.Flags().StringVar(&in.Mobile, "mobile", "", "Sender phone number")
	submit.Flags().StringVar(&in.City, "city", "", "Sender city")
	_ = submit.MarkFlagRequired("email")

	cmd.AddCommand(list, submit)
	return cmd
}

func (a *app) newsletterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsletter",
		Short: "List or add newsletter subscriptions",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List newsletter subscriptions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.api.ListNewsletterSubscriptions(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	subscribe := &cobra.Command{
		Use:   "subscribe EMAIL",
		Short: "Subscribe an address; already subscribed addresses are accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Subscribe(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"success": true})
		},
	}

	cmd.AddCommand(list, subscribe)
	return cmd
}
