package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/notify"
)

func newNotifyCmd(a *app) *cobra.Command {
	var to, message, jobID string
	var status, dryRun bool

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a WhatsApp message to a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client := notify.New(notify.OptionsFromConfig(a.cfg, a.log))

			if status {
				st := client.Status(ctx)
				fmt.Printf("Configured: %t\n", st.Configured)
				fmt.Printf("Status:     %s\n", st.Status)
				if st.PhoneNumber != "" {
					fmt.Printf("Sender:     %s\n", st.PhoneNumber)
				}
				if st.Error != "" {
					fmt.Printf("Error:      %s\n", st.Error)
				}
				return nil
			}

			if message == "" && jobID != "" {
				list, err := a.loadJobs(ctx)
				if err != nil {
					return err
				}
				job, err := findJob(list, jobID)
				if err != nil {
					return err
				}
				if message, err = notify.FormatJobMessage(a.cfg.WhatsAppMessageTemplate, job); err != nil {
					return err
				}
				if to == "" {
					to = job.Mobile
				}
			}

			if dryRun {
				phone, err := notify.NormalizePhone(to, a.cfg.WhatsAppDefaultRegion)
				if err != nil {
					return err
				}
				fmt.Printf("To: %s\n\n%s\n", phone, message)
				return nil
			}

			result, err := client.Send(ctx, to, message)
			if errors.Is(err, notify.ErrNotConfigured) {
				return fmt.Errorf("%w: set WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_ACCESS_TOKEN", err)
			}
			if err != nil {
				return err
			}
			fmt.Printf("✅ Sent to %s (message %s)\n", result.To, result.MessageID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&to, "to", "", "recipient phone (default the job's mobile)")
	f.StringVar(&message, "message", "", "message text")
	f.StringVar(&jobID, "job", "", "render the message template for this job id")
	f.BoolVar(&status, "status", false, "show whether messaging is configured and reachable")
	f.BoolVar(&dryRun, "dry-run", false, "print the message instead of sending it")
	return cmd
}

func findJob(list []jobs.Job, id string) (jobs.Job, error) {
	for _, j := range list {
		if j.ID == id {
			return j, nil
		}
	}
	return jobs.Job{}, fmt.Errorf("job %s: %w", id, jobs.ErrNotFound)
}
