package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/client"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
)

var api *client.Client

func main() {
	rootCmd := &cobra.Command{
		Use:   "market",
		Short: "Command-line client for the marketplace API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			api = client.New(viper.GetString("server.url"))
			return api.LoadSession()
		},
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "", "server base URL (overrides config)")
	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		productsCmd(),
		buyCmd(),
		purchasesCmd(),
		chatsCmd(),
		chatCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(dir + "/market")
	}

	viper.SetEnvPrefix("market")
	viper.AutomaticEnv()
	viper.SetDefault("server.url", "http://localhost:3000")

	// Missing config file is fine, defaults and env cover it.
	_ = viper.ReadInConfig()
}

func registerCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := api.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("registered as %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.Logout()
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := api.CurrentUser()
			if !ok {
				return fmt.Errorf("not logged in")
			}
			fmt.Printf("%s <%s> (id %d)\n", user.Username, user.Email, user.ID)
			return nil
		},
	}
}

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := api.Products(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range products {
				fmt.Printf("%4d  $%-10.2f %-12s %s\n", p.ID, p.Price, p.Type, p.Name)
			}
			return nil
		},
	}

	var name, productType string
	var price float64
	add := &cobra.Command{
		Use:   "add",
		Short: "List a product for sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := api.CreateProduct(cmd.Context(), name, productType, price)
			if err != nil {
				return err
			}
			fmt.Printf("listed product %d\n", p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "product name")
	add.Flags().StringVar(&productType, "type", "", "product type")
	add.Flags().Float64Var(&price, "price", 0, "price")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("price")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update one of your products (flags left out keep their value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch client.ProductPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("type") {
				patch.Type = &productType
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}
			p, err := api.UpdateProduct(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Printf("updated product %d: %s $%.2f\n", p.ID, p.Name, p.Price)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "product name")
	update.Flags().StringVar(&productType, "type", "", "product type")
	update.Flags().Float64Var(&price, "price", 0, "price")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return api.DeleteProduct(cmd.Context(), id)
		},
	}

	cmd.AddCommand(add, update, del)
	return cmd
}

func buyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <product-id>",
		Short: "Buy a product; opens a conversation with the seller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := api.Buy(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("purchase %d completed ($%.2f); conversation %d opened with the seller\n",
				result.Purchase.ID, result.Purchase.Amount, result.Conversation.ID)
			return nil
		},
	}
}

func purchasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purchases",
		Short: "Show your purchase history",
		RunE: func(cmd *cobra.Command, args []string) error {
			purchases, err := api.Purchases(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range purchases {
				name := p.ProductName
				if name == "" {
					name = "(deleted product)"
				}
				fmt.Printf("%4d  $%-10.2f %-10s %s → %s  %s\n",
					p.ID, p.Amount, p.Status, p.BuyerUsername, p.SellerUsername, name)
			}
			return nil
		},
	}
}

func chatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List your conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			convs, err := api.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range convs {
				fmt.Printf("%4d  with %-20s last activity %s\n",
					c.ID, c.Counterpart.Username, c.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <conversation-id>",
		Short: "Open a conversation; polls for new messages, type to send, /quit to leave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convID, err := parseID(args[0])
			if err != nil {
				return err
			}

			me, _ := api.CurrentUser()
			lastShown := uint(0)

			printNew := func(msgs []models.MessageView) {
				for _, m := range msgs {
					if m.ID <= lastShown {
						continue
					}
					lastShown = m.ID
					who := m.SenderUsername
					if m.SenderID == me.ID {
						who = "you"
					}
					fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04"), who, m.Content)
				}
			}

			watcher := client.NewWatcher(api, func(_ uint, msgs []models.MessageView) {
				printNew(msgs)
			})
			defer watcher.Close()

			msgs, err := watcher.Open(cmd.Context(), convID)
			if err != nil {
				return err
			}
			printNew(msgs)

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "/quit" {
					return nil
				}
				if line == "" {
					continue
				}
				if _, err := watcher.Send(context.Background(), line); err != nil {
					fmt.Fprintln(os.Stderr, "send failed:", err)
				}
			}
			return scanner.Err()
		},
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
