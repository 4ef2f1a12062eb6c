package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevin07696/promptpay-service/internal/adapters/qrcode"
	"github.com/kevin07696/promptpay-service/internal/config"
	"github.com/kevin07696/promptpay-service/internal/domain"
	service "github.com/kevin07696/promptpay-service/internal/services/promptpay"
	"github.com/kevin07696/promptpay-service/pkg/resilience"
	"github.com/kevin07696/promptpay-service/pkg/security"
)

// requestFlags are shared by payload and png
type requestFlags struct {
	amount     string
	mobile     string
	name       string
	reference  string
	billNumber string

	profileFile string
	tag         string
	presented   string
	point       string
	mcc         string
	city        string
	postalCode  string

	verbose bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qrgen",
		Short:         "Build, render and decode PromptPay QR payloads",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(payloadCmd())
	rootCmd.AddCommand(pngCmd())
	rootCmd.AddCommand(decodeCmd())

	return rootCmd
}

func payloadCmd() *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print the TLV payload text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, req, err := f.build(cmd, config.QRConfig{ErrorCorrection: "low", Size: 320})
			if err != nil {
				return err
			}
			result, err := svc.BuildPayload(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Payload)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func pngCmd() *cobra.Command {
	f := &requestFlags{}
	var (
		out   string
		size  int
		level string
	)
	cmd := &cobra.Command{
		Use:   "png",
		Short: "Render the payload as a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, req, err := f.build(cmd, config.QRConfig{ErrorCorrection: level, Size: size})
			if err != nil {
				return err
			}
			result, err := svc.GenerateQRCode(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, result.PNG, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nwrote %d bytes to %s\n", result.Payload, len(result.PNG), out)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "promptpay.png", "Output file")
	cmd.Flags().IntVar(&size, "size", 320, "Image size in pixels")
	cmd.Flags().StringVar(&level, "level", "low", "Error correction (low, medium, high, highest)")
	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [payload]",
		Short: "Decode a payload and check its checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.NewService(config.DefaultProfile(),
				config.QRConfig{ErrorCorrection: "low", Size: 320},
				nil, resilience.DefaultTimeoutConfig(), zap.NewNop())
			if err != nil {
				return err
			}
			result, err := svc.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printFields(w, result.Fields, 0)
			if !result.Valid {
				return fmt.Errorf("invalid payload: %s", result.Reason)
			}
			fmt.Fprintln(w, "checksum OK")
			return nil
		},
	}
}

func printFields(w io.Writer, fields []domain.VerifiedField, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		if len(f.Children) > 0 {
			fmt.Fprintf(w, "%s%s (%02d)\n", indent, f.ID, f.Length)
			printFields(w, f.Children, depth+1)
			continue
		}
		fmt.Fprintf(w, "%s%s (%02d) %s\n", indent, f.ID, f.Length, f.Value)
	}
}

func (f *requestFlags) register(cmd *cobra.Command) {
	def := config.DefaultProfile()
	flags := cmd.Flags()

	flags.StringVar(&f.amount, "amount", "", "Transaction amount in baht")
	flags.StringVar(&f.mobile, "mobile", "", "PromptPay mobile number")
	flags.StringVar(&f.name, "name", "", "Merchant name")
	flags.StringVar(&f.reference, "reference", "", "Reference label (tag 62)")
	flags.StringVar(&f.billNumber, "bill", "", "Bill number (tag 62)")

	flags.StringVar(&f.profileFile, "profile", "", "YAML merchant profile")
	flags.StringVar(&f.tag, "tag", def.MerchantAccountTag, "Merchant account information tag (02-51)")
	flags.StringVar(&f.presented, "presented", def.PresentedType, "merchant or customer")
	flags.StringVar(&f.point, "poi", def.PointOfInitiation, "static or dynamic")
	flags.StringVar(&f.mcc, "mcc", def.MerchantCategoryCode, "Merchant category code")
	flags.StringVar(&f.city, "city", def.MerchantCity, "Merchant city")
	flags.StringVar(&f.postalCode, "postal", def.PostalCode, "Postal code, empty to omit")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log to stderr")

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("mobile")
	_ = cmd.MarkFlagRequired("name")
}

// build assembles the merchant profile (defaults, then --profile, then
// explicit flags) and a service around the real renderer.
func (f *requestFlags) build(cmd *cobra.Command, qr config.QRConfig) (*service.Service, *domain.QRCodeRequest, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --amount %q: %w", f.amount, err)
	}

	profile := config.DefaultProfile()
	if f.profileFile != "" {
		if err := config.LoadProfile(f.profileFile, &profile); err != nil {
			return nil, nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}
	f.override(cmd, &profile)

	logger := zap.NewNop()
	if f.verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	renderer := qrcode.NewRenderer(security.NewZapLogger(logger))
	svc, err := service.NewService(profile, qr, renderer, resilience.DefaultTimeoutConfig(), logger)
	if err != nil {
		return nil, nil, err
	}

	return svc, &domain.QRCodeRequest{
		TransactionAmount: amount,
		MobileNumber:      f.mobile,
		MerchantName:      f.name,
		Reference:         f.reference,
		BillNumber:        f.billNumber,
	}, nil
}

// override applies only flags the user set, so a profile file is not
// clobbered by flag defaults.
func (f *requestFlags) override(cmd *cobra.Command, p *config.MerchantProfile) {
	for _, o := range []struct {
		flag  string
		value string
		dst   *string
	}{
		{"tag", f.tag, &p.MerchantAccountTag},
		{"presented", f.presented, &p.PresentedType},
		{"poi", f.point, &p.PointOfInitiation},
		{"mcc", f.mcc, &p.MerchantCategoryCode},
		{"city", f.city, &p.MerchantCity},
		{"postal", f.postalCode, &p.PostalCode},
	} {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.value
		}
	}
}
