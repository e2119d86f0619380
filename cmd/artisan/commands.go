package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/api/handlers"
	"github.com/artisanhub/artisanhub-api/internal/storage"
	"github.com/artisanhub/artisanhub-api/internal/wallet"
	"github.com/spf13/cobra"
)

const lastStyleKey = "artisanhub.style"

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available art styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		styles, err := apiClient().Styles(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range styles {
			fmt.Fprintf(out, "%-12s %s - %s\n", s.ID, s.Name, s.Description)
		}
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate an image and save it as PNG",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the wallet session of this terminal",
}

var walletConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the keypair wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := walletManager(cmd)
		if err != nil {
			return err
		}
		session, err := manager.Connect(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected %s\n", session.PublicAddress)
		return nil
	},
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached wallet session",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := wallet.NewManager(nil, storage.Open(storage.ScopeSession)).Session()
		if !session.Connected {
			fmt.Fprintln(cmd.OutOrStdout(), "Not connected")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected %s (authority %s)\n", session.PublicAddress, session.SmartWalletAuthority)
		return nil
	},
}

var walletDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the wallet session",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet.NewManager(nil, storage.Open(storage.ScopeSession)).Disconnect()
		fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
		return nil
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint <image.png>",
	Short: "Mint an image as an NFT owned by the connected wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runMint,
}

var transferCmd = &cobra.Command{
	Use:   "transfer <recipient> <amount>",
	Short: "Send SOL from the connected wallet",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransfer,
}

func init() {
	generateCmd.Flags().String("style", "", "Art style id (defaults to the last one used)")
	generateCmd.Flags().String("size", "square", "square, portrait, landscape or wide")
	generateCmd.Flags().String("quality", "standard", "standard or high")
	generateCmd.Flags().StringP("output", "o", "artwork.png", "Output file")

	mintCmd.Flags().String("title", "", "NFT name (at most 32 bytes)")
	mintCmd.Flags().String("description", "", "NFT description")
	_ = mintCmd.MarkFlagRequired("title")

	walletCmd.AddCommand(walletConnectCmd, walletStatusCmd, walletDisconnectCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	local := storage.Open(storage.ScopeLocal)
	style, _ := cmd.Flags().GetString("style")
	if style == "" {
		style, _ = local.Get(lastStyleKey)
	}
	size, _ := cmd.Flags().GetString("size")
	quality, _ := cmd.Flags().GetString("quality")
	output, _ := cmd.Flags().GetString("output")

	image, err := apiClient().GenerateImage(cmd.Context(), handlers.GenerateImageRequest{
		Prompt:  strings.Join(args, " "),
		Style:   style,
		Size:    size,
		Quality: quality,
	})
	if err != nil {
		return err
	}
	if style != "" {
		local.Set(lastStyleKey, style)
	}

	data, err := decodeDataURL(image)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", output, len(data))
	return nil
}

func runMint(cmd *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	manager, err := walletManager(cmd)
	if err != nil {
		return err
	}
	session, err := connectedSession(cmd.Context(), manager)
	if err != nil {
		return err
	}

	message := mintMessage(title)
	sig, err := manager.SignMessage(cmd.Context(), []byte(message))
	if err != nil {
		return err
	}

	resp, err := apiClient().Mint(cmd.Context(), handlers.MintRequest{
		Image:       base64.StdEncoding.EncodeToString(image),
		Title:       title,
		Description: description,
		PublicKey:   session.PublicAddress,
		Signature:   base64.StdEncoding.EncodeToString(sig),
		Message:     message,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "NFT:      %s\n", resp.NFTAddress)
	fmt.Fprintf(out, "Metadata: %s\n", resp.MetadataURI)
	fmt.Fprintf(out, "Image:    %s\n", resp.ImageURI)
	return nil
}

func runTransfer(cmd *cobra.Command, args []string) error {
	manager, err := walletManager(cmd)
	if err != nil {
		return err
	}
	session, err := connectedSession(cmd.Context(), manager)
	if err != nil {
		return err
	}

	req, err := signTransfer(cmd.Context(), manager, blockhashSource(rpcURL), session.PublicAddress, args[0], args[1])
	if err != nil {
		return err
	}

	resp, err := apiClient().Transfer(cmd.Context(), *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent %d lamports, transaction %s\n", resp.Lamports, resp.TxID)
	return nil
}

func mintMessage(title string) string {
	return "ArtisanHub mint: " + title
}

func walletManager(cmd *cobra.Command) (*wallet.Manager, error) {
	var approve wallet.Approver
	if !assumeYes {
		approve = terminalApprover(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	provider, err := wallet.NewKeypairProvider(keypairPath, approve)
	if err != nil {
		return nil, err
	}
	return wallet.NewManager(provider, storage.Open(storage.ScopeSession)), nil
}

// connectedSession returns the cached session, connecting first when needed
func connectedSession(ctx context.Context, manager *wallet.Manager) (wallet.Session, error) {
	if s := manager.Session(); s.Connected {
		return s, nil
	}
	return manager.Connect(ctx)
}

// terminalApprover asks y/N questions on out and reads answers from in
func terminalApprover(in io.Reader, out io.Writer) wallet.Approver {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	}
}

func decodeDataURL(image string) ([]byte, error) {
	if i := strings.IndexByte(image, ','); strings.HasPrefix(image, "data:") && i >= 0 {
		image = image[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return data, nil
}
