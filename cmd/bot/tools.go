package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/botkit/bot"
	"github.com/spf13/cobra"
)

func newCurrencyCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "currency <amount>",
		Short: "Convert an amount using the Vietcombank rate table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("amount %q is not a number: %w", args[0], bot.ErrValidation)
			}
			return a.invoke(cmd.Context(), "convert_currency", bot.Args{
				"amount":        amount,
				"from_currency": from,
				"to_currency":   to,
			})
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "USD", "source currency code")
	cmd.Flags().StringVarP(&to, "to", "t", "VND", "target currency code")
	return cmd
}

func newJWTCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jwt <token>",
		Short: "Decode a JWT without verifying its signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.invoke(cmd.Context(), "decode_jwt", bot.Args{"token": args[0]})
		},
	}
}

func newNotifyCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "notify <message>",
		Short: "Show a desktop notification",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.invoke(cmd.Context(), "send_notification", bot.Args{
				"message": strings.Join(args, " "),
				"title":   title,
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", bot.DefaultNotificationTitle, "notification title")
	return cmd
}
