package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/club-finance/internal/notification"
	"github.com/frahmantamala/club-finance/pkg/logger"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification commands",
	Long:  `Check the mail relay and preview dues notification templates`,
}

var notifyTestCmd = &cobra.Command{
	Use:   "test [email]",
	Short: "Send a sample dues notification",
	Long:  `Render one of the dues templates with sample data and deliver it through the configured SMTP relay`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTestNotification(args[0])
	},
}

var notifyTemplate string

func sendTestNotification(to string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	notice := notification.DuesNotice{
		FirstName:     "Test",
		Amount:        5000,
		DueDate:       time.Now().UTC().AddDate(0, 0, cfg.Dues.ReminderDays).Format("January 2, 2006"),
		DaysUntilDue:  cfg.Dues.ReminderDays,
		DaysOverdue:   1,
		GraceDaysLeft: cfg.Dues.GraceDays - 1,
	}

	var msg notification.Message
	switch notifyTemplate {
	case "reminder":
		msg, err = notification.RenderReminder(notice)
	case "overdue":
		msg, err = notification.RenderOverdue(notice)
	case "inactivated":
		msg, err = notification.RenderInactivated(notice)
	default:
		return fmt.Errorf("unknown template %q: use reminder, overdue or inactivated", notifyTemplate)
	}
	if err != nil {
		return err
	}

	lg.Info("sending test notification", "to", to, "template", notifyTemplate, "smtp_host", cfg.Mail.Host)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res := notification.NewSMTPMailer(cfg.Mail, lg).Send(ctx, to, msg.Subject, msg.HTML)
	if !res.Success {
		return errors.New(res.Error)
	}

	lg.Info("test notification delivered", "to", to)
	return nil
}

func init() {
	notifyTestCmd.Flags().StringVarP(&notifyTemplate, "template", "t", "reminder", "Template to render: reminder, overdue or inactivated")

	notifyCmd.AddCommand(notifyTestCmd)

	rootCmd.AddCommand(notifyCmd)
}
