package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/spf13/cobra"
)

// callOptions holds the flags of calls create.
type callOptions struct {
	to               string
	toType           string
	from             string
	randomFrom       bool
	answerURL        string
	talk             []string
	nccoFile         string
	eventURL         string
	machineDetection string
	lengthTimer      int
	ringingTimer     int
}

// NewCallsCommand creates the calls command group.
func NewCallsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calls",
		Aliases: []string{"call"},
		Short:   "Manage voice calls",
		Long:    "Place outbound calls with the Voice API",
	}

	cmd.AddCommand(newCallsCreateCommand())

	return cmd
}

func newCallsCreateCommand() *cobra.Command {
	opts := &callOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an outbound call",
		Long: `Place an outbound call. The call flow is either fetched from --answer-url
or given inline with --talk or --ncco-file.

Examples:
  vonage calls create --to 447700900000 --from 447700900001 --talk "Hello from Vonage"
  vonage calls create --to alice --to-type app --random-from --answer-url https://example.com/answer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			call, err := buildCall(opts)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := client.Voice().CreateOutboundCall(cmd.Context(), call)
			if err != nil {
				return fmt.Errorf("failed to create call: %w", err)
			}

			return render(cmd.OutOrStdout(), resp, propertyTable([][]string{
				{"UUID", resp.UUID},
				{"Conversation UUID", resp.ConversationUUID},
				{"Status", string(resp.Status)},
				{"Direction", string(resp.Direction)},
			}))
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "destination number, user, URI or extension")
	cmd.Flags().StringVar(&opts.toType, "to-type", "phone", "destination type (phone, app, sip, websocket, vbc)")
	cmd.Flags().StringVar(&opts.from, "from", "", "caller ID number")
	cmd.Flags().BoolVar(&opts.randomFrom, "random-from", false, "use a random number linked to the application")
	cmd.Flags().StringVar(&opts.answerURL, "answer-url", "", "URL Vonage fetches the NCCO from")
	cmd.Flags().StringArrayVar(&opts.talk, "talk", nil, "text to speak, repeatable")
	cmd.Flags().StringVar(&opts.nccoFile, "ncco-file", "", "path to a JSON NCCO")
	cmd.Flags().StringVar(&opts.eventURL, "event-url", "", "webhook for call events")
	cmd.Flags().StringVar(&opts.machineDetection, "machine-detection", "", "behavior when a machine answers (continue, hangup)")
	cmd.Flags().IntVar(&opts.lengthTimer, "length-timer", 0, "maximum call length in seconds")
	cmd.Flags().IntVar(&opts.ringingTimer, "ringing-timer", 0, "maximum ringing time in seconds")

	return cmd
}

// buildCall turns flags into a validated call request.
func buildCall(opts *callOptions) (*vonage.CreateCall, error) {
	var builder *vonage.CallBuilder

	if opts.answerURL != "" {
		builder = vonage.NewAnswerURLCallBuilder().AnswerURL(opts.answerURL)
	} else {
		ncco, err := buildNCCO(opts)
		if err != nil {
			return nil, err
		}

		builder = vonage.NewNCCOCallBuilder()
		if ncco != nil {
			builder.NCCO(ncco)
		}
	}

	if opts.to != "" {
		endpoint, err := parseEndpoint(opts.toType, opts.to)
		if err != nil {
			return nil, err
		}

		builder.To(endpoint)
	}

	if opts.from != "" {
		builder.From(opts.from)
	}

	if opts.randomFrom {
		builder.RandomFromNumber(true)
	}

	if opts.eventURL != "" {
		builder.EventURL(opts.eventURL)
	}

	if opts.machineDetection != "" {
		builder.MachineDetection(vonage.MachineDetection(opts.machineDetection))
	}

	if opts.lengthTimer > 0 {
		builder.LengthTimer(opts.lengthTimer)
	}

	if opts.ringingTimer > 0 {
		builder.RingingTimer(opts.ringingTimer)
	}

	return builder.Build()
}

// buildNCCO returns the inline call flow, or nil when none was given.
func buildNCCO(opts *callOptions) (*vonage.NCCO, error) {
	if opts.nccoFile != "" {
		data, err := os.ReadFile(opts.nccoFile) // #nosec G304 -- path is supplied by the user on purpose
		if err != nil {
			return nil, fmt.Errorf("failed to read NCCO file: %w", err)
		}

		return vonage.ParseNCCO(data)
	}

	if len(opts.talk) == 0 {
		return nil, nil
	}

	ncco := vonage.NewNCCO()
	for _, text := range opts.talk {
		ncco.Talk(text)
	}

	return ncco, nil
}

// parseEndpoint builds a call destination of the given type.
func parseEndpoint(kind, value string) (vonage.Endpoint, error) {
	switch strings.ToLower(kind) {
	case "", "phone":
		return &vonage.PhoneEndpoint{Number: value}, nil
	case "app":
		return &vonage.AppEndpoint{User: value}, nil
	case "sip":
		return &vonage.SIPEndpoint{URI: value}, nil
	case "websocket":
		return &vonage.WebsocketEndpoint{URI: value, ContentType: vonage.AudioFormatL16_16K}, nil
	case "vbc":
		return &vonage.VBCEndpoint{Extension: value}, nil
	default:
		return nil, fmt.Errorf("%w: %s", vonage.ErrUnknownEndpointType, kind)
	}
}
