package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"entity-notifier/internal/core"
	"entity-notifier/internal/eventbus"
)

func newPublishCmd(a *app) *cobra.Command {
	var (
		redisAddr, prefix                         string
		entityType, entityID, operation, attrName string
		attrValue                                 string
	)
	cmd := &cobra.Command{
		Use:     "publish",
		Short:   "Forward one change event to every relaying notifierd",
		Example: "  notifierd publish --entity-type task --entity-id T1 --operation UPDATE --attribute-name status --attribute-value done",
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisAddr == "" {
				redisAddr = a.cfg.Redis.Addr
			}
			if redisAddr == "" {
				return fmt.Errorf("publish requires --redis-addr or redis.addr in config")
			}
			if prefix == "" {
				prefix = a.cfg.Redis.ChannelPrefix
			}
			op, err := core.ParseOperation(operation)
			if err != nil {
				return err
			}
			var value interface{}
			if cmd.Flags().Changed("attribute-value") {
				value = attrValue
			}
			ev, err := core.NewEvent(entityType, entityID, op, attrName, value)
			if err != nil {
				return err
			}

			bridge := eventbus.NewRedisBridge(&redis.Options{Addr: redisAddr}, prefix, a.logger)
			defer bridge.Close()
			if err := bridge.Forward(cmd.Context(), ev); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ev.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&redisAddr, "redis-addr", "", "Redis address (defaults to redis.addr from config)")
	f.StringVar(&prefix, "channel-prefix", "", "Channel prefix (defaults to redis.channel_prefix from config)")
	f.StringVar(&entityType, "entity-type", "", "Entity type")
	f.StringVar(&entityID, "entity-id", "", "Entity id")
	f.StringVar(&operation, "operation", "", "CREATION|UPDATE|DELETION|SUBMISSION")
	f.StringVar(&attrName, "attribute-name", "", "Changed attribute (UPDATE only)")
	f.StringVar(&attrValue, "attribute-value", "", "New attribute value")
	return cmd
}
