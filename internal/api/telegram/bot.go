package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "device-inspector/internal/application"
	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот контроля сборки устройств.

📸 Отправьте фото лицевой панели, и я проверю кнопки, экран и маркировку.

📋 Команды:
/check - начать проверку
/stats - статистика проверок
/help - справка
/cancel - отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото лицевой панели устройства
2️⃣ Бот найдёт кнопки и экран и проверит их
3️⃣ Вы получите вердикт PASS/FAIL и фото с разметкой

💡 Рекомендации:
• Снимайте панель целиком и без бликов
• Держите камеру параллельно панели

📋 Команды:
/check - начать проверку
/stats - статистика проверок
/cancel - отменить операцию`

	msgAwaitingPhoto     = "📸 Отправьте фото устройства для проверки."
	msgCancelled         = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto         = "📸 Пожалуйста, отправьте фото устройства для проверки."
	msgUnknownCommand    = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing        = "⏳ Обрабатываю изображение..."
	msgProcessingError   = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgModelsUnavailable = "🛠 Модели распознавания недоступны. Попробуйте позже."
	msgStatsError        = "⚠️ Не удалось получить статистику."
)

// botAPI методы tgbotapi.BotAPI, которые использует бот
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api        botAPI
	inspection *app.InspectionService
	operators  *app.OperatorService
	http       *resty.Client
	log        *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, inspection *app.InspectionService, operators *app.OperatorService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	b := newBot(api, inspection, operators, log)
	b.log.Info("authorized on account", zap.String("username", api.Self.UserName))
	return b, nil
}

func newBot(api botAPI, inspection *app.InspectionService, operators *app.OperatorService, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:        api,
		inspection: inspection,
		operators:  operators,
		http:       resty.New(),
		log:        log.Named("telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateIdle)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		b.setState(ctx, userID, chatID, entity.StateAwaitingPhoto)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		b.setState(ctx, userID, chatID, entity.StateIdle)
		b.sendMessage(chatID, msgCancelled)

	case "stats":
		stats, err := b.inspection.Statistics(ctx, zeroTime, zeroTime)
		if err != nil {
			b.log.Error("statistics failed", zap.Error(err))
			b.sendMessage(chatID, msgStatsError)
			return
		}
		b.sendMessage(chatID, formatStats(stats))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	b.setState(ctx, userID, chatID, entity.StateProcessing)
	b.sendMessage(chatID, msgProcessing)

	// Самое большое разрешение идёт последним
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.Error("download photo failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		b.setState(ctx, userID, chatID, entity.StateIdle)
		return
	}

	filename := fmt.Sprintf("TG_%d_%d.jpg", chatID, msg.MessageID)
	out, err := b.inspection.AnalyzeImage(ctx, filename, imageData)
	if err != nil {
		b.log.Warn("analysis rejected", zap.String("filename", filename), zap.Error(err))
		if errors.Is(err, port.ErrModelUnavailable) {
			b.sendMessage(chatID, msgModelsUnavailable)
		} else {
			b.sendMessage(chatID, msgProcessingError)
		}
		b.setState(ctx, userID, chatID, entity.StateIdle)
		return
	}

	text := formatVerdict(out.Record)
	if len(out.Annotated) > 0 {
		b.sendPhoto(chatID, out.Annotated, text)
	} else {
		b.sendMessage(chatID, text)
	}

	if _, err := b.operators.Finish(ctx, userID, chatID, out.Record.ID); err != nil {
		b.log.Error("save operator failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	resp, err := b.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download file: status %s", resp.Status())
	}
	return resp.Body(), nil
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.OperatorState) {
	if _, err := b.operators.SetState(ctx, userID, chatID, state); err != nil {
		b.log.Error("save operator failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "result.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error("send photo failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
