package main

import (
	"encoding/json"
	"fmt"
	"net/smtp"
	"os"

	"github.com/jeroenrinzema/mailkit"
	"github.com/jeroenrinzema/mailkit/mailkitlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	smtpAddr   string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "compose an envelope from a JSON config and emit it",
	RunE:  send,
}

func init() {
	sendCmd.Flags().StringVarP(&configPath, "config", "c", "envelope.json", "path to the envelope JSON file")
	sendCmd.Flags().StringVar(&smtpAddr, "smtp", "", "dial this SMTP address and submit the message instead of printing it")
}

// envelopeConfig mirrors flashmob-go-guerrilla/config/config.go's
// approach of unmarshaling the whole daemon config with encoding/json
// into a plain struct, scaled down to what a single message needs.
type envelopeConfig struct {
	From    string   `json:"from"`
	Sender  string   `json:"sender"`
	ReplyTo string   `json:"replyTo"`
	To      []string `json:"to"`
	Cc      []string `json:"cc"`
	Bcc     []string `json:"bcc"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

func readConfig(path string) (*envelopeConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg := &envelopeConfig{}
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func parseMailboxList(addrs []string) (mailkit.MailboxList, error) {
	list := make(mailkit.MailboxList, 0, len(addrs))
	for _, a := range addrs {
		m, err := mailkit.ParseMailbox(a)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

func buildMessage(cfg *envelopeConfig) (*mailkit.Message, error) {
	builder := mailkit.NewMessage()

	from, err := mailkit.ParseMailbox(cfg.From)
	if err != nil {
		return nil, err
	}
	builder.From(from)

	if cfg.Sender != "" {
		sender, err := mailkit.ParseMailbox(cfg.Sender)
		if err != nil {
			return nil, err
		}
		builder.Sender(sender)
	}

	if cfg.ReplyTo != "" {
		replyTo, err := mailkit.ParseMailbox(cfg.ReplyTo)
		if err != nil {
			return nil, err
		}
		builder.ReplyTo(replyTo)
	}

	to, err := parseMailboxList(cfg.To)
	if err != nil {
		return nil, err
	}
	builder.To(to...)

	if len(cfg.Cc) > 0 {
		cc, err := parseMailboxList(cfg.Cc)
		if err != nil {
			return nil, err
		}
		builder.Cc(cc...)
	}

	if len(cfg.Bcc) > 0 {
		bcc, err := parseMailboxList(cfg.Bcc)
		if err != nil {
			return nil, err
		}
		builder.Bcc(bcc...)
	}

	builder.Subject(cfg.Subject)
	return builder.Body(cfg.Body)
}

func send(cmd *cobra.Command, args []string) error {
	logger := mailkitlog.New()
	logger.SetLevel(logrus.GetLevel())
	mailkit.SetLogger(logger)

	cfg, err := readConfig(configPath)
	if err != nil {
		return err
	}

	msg, err := buildMessage(cfg)
	if err != nil {
		return err
	}

	if smtpAddr == "" {
		_, err := msg.WriteTo(os.Stdout)
		return err
	}
	return submit(msg, smtpAddr, cfg)
}

// submit dials addr and streams msg through the DATA command, grounded
// on gearnode-postman/main.go's Dial/Mail/Rcpt/Data sequence.
func submit(msg *mailkit.Message, addr string, cfg *envelopeConfig) error {
	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.Mail(cfg.From); err != nil {
		return err
	}
	for _, rcpt := range append(append(append([]string{}, cfg.To...), cfg.Cc...), cfg.Bcc...) {
		if err := conn.Rcpt(rcpt); err != nil {
			return err
		}
	}

	wc, err := conn.Data()
	if err != nil {
		return err
	}
	defer wc.Close()

	_, err = msg.WriteTo(wc)
	return err
}
