package messenger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "modernc.org/sqlite"
)

// WhatsmeowMessenger envia mensagens diretamente pelo protocolo do WhatsApp,
// usando uma sessão pareada guardada em SQLite.
type WhatsmeowMessenger struct {
	Client *whatsmeow.Client
}

func NewWhatsmeowMessenger(ctx context.Context, dbPath string) (*WhatsmeowMessenger, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("erro ao criar diretório da sessão: %w", err)
		}
	}

	container, err := sqlstore.New(ctx, "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", newWALogger("whatsmeow.store"))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir sessão do whatsmeow: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter dispositivo do whatsmeow: %w", err)
	}

	return &WhatsmeowMessenger{
		Client: whatsmeow.NewClient(device, newWALogger("whatsmeow.client")),
	}, nil
}

// Connect conecta a sessão. Sem sessão pareada, o QR code é exibido no log
// até que um aparelho faça o pareamento.
func (m *WhatsmeowMessenger) Connect(ctx context.Context) error {
	if m.Client.Store.ID != nil {
		if err := m.Client.Connect(); err != nil {
			return fmt.Errorf("erro ao conectar whatsmeow: %w", err)
		}
		logrus.WithField("phone", m.Client.Store.ID.User).Info("WhatsApp conectado (sessão existente)")
		return nil
	}

	qrChan, err := m.Client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("erro ao obter canal de QR: %w", err)
	}

	if err := m.Client.Connect(); err != nil {
		return fmt.Errorf("erro ao conectar whatsmeow: %w", err)
	}

	go func() {
		for evt := range qrChan {
			if evt.Event != "code" {
				logrus.WithField("event", evt.Event).Info("Evento de pareamento do WhatsApp")
				continue
			}

			qr, err := qrcode.New(evt.Code, qrcode.Medium)
			if err != nil {
				logrus.WithField("code", evt.Code).Warn("Escaneie o código de pareamento do WhatsApp")
				continue
			}
			fmt.Fprintln(os.Stdout, qr.ToSmallString(false))
			logrus.Info("Escaneie o QR code acima para parear o WhatsApp")
		}
	}()

	return nil
}

func (m *WhatsmeowMessenger) SendText(ctx context.Context, to, text string) error {
	if !m.Client.IsConnected() || m.Client.Store.ID == nil {
		return fmt.Errorf("whatsapp não conectado")
	}

	jid, err := ToJID(to)
	if err != nil {
		return err
	}

	_, err = m.Client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: &text,
	})
	if err != nil {
		return fmt.Errorf("erro ao enviar mensagem pelo whatsmeow: %w", err)
	}

	return nil
}

func (m *WhatsmeowMessenger) Close() {
	m.Client.Disconnect()
}

// ToJID converte o endereço de destinatário para o JID do protocolo.
// O sufixo "@c.us" dos gateways corresponde a "@s.whatsapp.net".
func ToJID(to string) (types.JID, error) {
	address := strings.TrimSpace(to)
	if user, ok := strings.CutSuffix(address, "@c.us"); ok {
		address = user + "@" + types.DefaultUserServer
	} else if !strings.Contains(address, "@") {
		address += "@" + types.DefaultUserServer
	}

	jid, err := types.ParseJID(address)
	if err != nil {
		return types.JID{}, fmt.Errorf("destinatário inválido %q: %w", to, err)
	}
	return jid, nil
}

// waLogger encaminha os logs do whatsmeow para o logrus
type waLogger struct {
	entry *logrus.Entry
}

func newWALogger(module string) waLog.Logger {
	return &waLogger{entry: logrus.WithField("module", module)}
}

func (l *waLogger) Errorf(msg string, args ...interface{}) { l.entry.Errorf(msg, args...) }
func (l *waLogger) Warnf(msg string, args ...interface{})  { l.entry.Warnf(msg, args...) }
func (l *waLogger) Infof(msg string, args ...interface{})  { l.entry.Debugf(msg, args...) }
func (l *waLogger) Debugf(msg string, args ...interface{}) { l.entry.Tracef(msg, args...) }

func (l *waLogger) Sub(module string) waLog.Logger {
	return &waLogger{entry: l.entry.WithField("module", l.entry.Data["module"].(string)+"/"+module)}
}
