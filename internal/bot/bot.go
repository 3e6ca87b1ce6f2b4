package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"calendar-planner/internal/model"
	"calendar-planner/internal/repository"
	"calendar-planner/internal/schedule"
	"calendar-planner/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageDate
	stageStartTime
	stageEndTime
	stageCategory
)

const (
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"
)

const (
	btnSkip          = "⏭️ Skip"
	btnConfirm       = "✅ Confirm"
	btnCancel        = "↩️ Cancel"
	btnCancelDialog  = "⏪ Cancel input"
	menuLabelNew     = "➕ New activity"
	menuLabelToday   = "📅 Today"
	menuLabelWeek    = "🗓 Week"
	menuLabelNext    = "⏭ Upcoming"
	menuLabelUrgent  = "🔥 Urgent"
	menuLabelHelp    = "ℹ️ Help"
)

type conversationState struct {
	stage conversationStage
	input service.ActivityInput
}

type confirmationAction int

const (
	actionComplete confirmationAction = iota
	actionDelete
)

type confirmationRequest struct {
	activityID uint
	action     confirmationAction
}

// Bot aggregates the Telegram API with planner services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	activitySvc   *service.ActivityService
	agendaSvc     *service.AgendaService
	exportSvc     *service.ExportService
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

func New(token string, userRepo *repository.UserRepository, activitySvc *service.ActivityService, agendaSvc *service.AgendaService, exportSvc *service.ExportService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		activitySvc:   activitySvc,
		agendaSvc:     agendaSvc,
		exportSvc:     exportSvc,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled. Pick something from the menu to continue.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I didn't catch that. Try /new to add an activity, or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "new":
		return b.startNewActivityConversation(ctx, msg)
	case "today":
		return b.handleDay(ctx, msg, schedule.FormatDate(time.Now()))
	case "day":
		return b.handleDayCommand(ctx, msg)
	case "week":
		return b.handleWeek(ctx, msg)
	case "upcoming":
		return b.handleUpcoming(ctx, msg)
	case "urgent":
		return b.handleUrgent(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "export":
		return b.handleExport(ctx, msg)
	case "complete":
		return b.handleComplete(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Activity input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I'm your personal calendar: time-boxed activities in a day grid.</b>\n\nCommands:\n"+
			"• /new — add an activity step by step\n"+
			"• /today — today's grid and agenda\n"+
			"• /day <code>YYYY-MM-DD</code> — grid for any date\n"+
			"• /week — weekly completion summary\n"+
			"• /upcoming — next scheduled activities\n"+
			"• /urgent — urgent backlog\n"+
			"• /export — download everything as .ics\n"+
			"• /help — more hints",
		escape(user.DisplayName()),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Hints</b>\n" +
		"• /new — add an activity (title, date, start/end time, category)\n" +
		"• /today — the day grid; overlapping activities share the width\n" +
		"• /day <code>2026-09-02</code> — any date's grid\n" +
		"• /week — totals for the current week\n" +
		"• /upcoming — what's next, soonest first\n" +
		"• /urgent — open items in the Urgent category\n" +
		"• /complete <code>id</code> — mark an activity done\n" +
		"• /delete <code>id</code> — remove an activity\n" +
		"• /report — preview the daily agenda message\n" +
		"• /export — your calendar as an iCalendar file\n" +
		"• /cancel — abort the current input"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) startNewActivityConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New activity.\n<b>Step 1:</b> what's it called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title can't be empty. What's the activity called?", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Add a short description (or hit Skip).", skipKeyboard())
	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		state.stage = stageDate
		return b.sendWithReplyMarkup(msg.Chat.ID, "📅 Which date? Use <code>YYYY-MM-DD</code>, or send <b>today</b> / <b>tomorrow</b>.", cancelKeyboard())
	case stageDate:
		date, err := resolveDateInput(text, time.Now())
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "I can't read that date. Use <code>2026-09-02</code>, <b>today</b> or <b>tomorrow</b>.", cancelKeyboard())
		}
		state.input.Date = date
		state.stage = stageStartTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "🕘 Start time, 24h <code>HH:MM</code> (e.g. <code>09:00</code>)?", cancelKeyboard())
	case stageStartTime:
		if _, err := schedule.ToMinutes(text); err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "That's not an <code>HH:MM</code> time. Try again, e.g. <code>09:00</code>.", cancelKeyboard())
		}
		state.input.StartTime = text
		state.stage = stageEndTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "🕙 End time, <code>HH:MM</code>? Must be after the start.", cancelKeyboard())
	case stageEndTime:
		end, err := schedule.ToMinutes(text)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "That's not an <code>HH:MM</code> time. Try again, e.g. <code>10:30</code>.", cancelKeyboard())
		}
		start, _ := schedule.ToMinutes(state.input.StartTime)
		if end <= start {
			return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("The end must be after %s.", state.input.StartTime), cancelKeyboard())
		}
		state.input.EndTime = text
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 Pick a category (anything else falls back to the default).", b.categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			state.input.Category = categoryIDFromLabel(text, b.activitySvc.Categories())
		}
		err := b.finishActivityCreation(ctx, msg.From, state.input, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Dialog reset. Start over with /new.")
	}
}

func (b *Bot) finishActivityCreation(ctx context.Context, from *tgbotapi.User, input service.ActivityInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	act, err := b.activitySvc.Create(ctx, user, input)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't save the activity: %s", escape(err.Error())))
	}

	log.Printf("[info] activity created id=%d user=%d date=%s", act.ID, user.ID, act.Date)

	category := b.activitySvc.Categories().Resolve(act.Category)

	var summary strings.Builder
	summary.WriteString("✅ <b>Activity saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", act.ID))
	summary.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(act.Title)))
	if act.Description != "" {
		summary.WriteString(fmt.Sprintf("• <b>Description:</b> %s\n", escape(act.Description)))
	}
	summary.WriteString(fmt.Sprintf("• <b>When:</b> %s %s–%s\n", act.Date, act.StartTime, act.EndTime))
	summary.WriteString(fmt.Sprintf("• <b>Category:</b> %s\n", escape(category.Label)))

	reply := tgbotapi.NewMessage(chatID, strings.TrimSpace(summary.String()))
	reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	reply.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(reply); err != nil {
		return err
	}
	return b.sendDayView(ctx, chatID, user, act.Date)
}

func (b *Bot) handleDayCommand(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Tell me the date: /day 2026-09-02")
	}
	date, err := resolveDateInput(args, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, "I can't read that date. Use <code>YYYY-MM-DD</code>.")
	}
	return b.handleDay(ctx, msg, date)
}

func (b *Bot) handleDay(ctx context.Context, msg *tgbotapi.Message, date string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendDayView(ctx, msg.Chat.ID, user, date)
}

// sendDayView sends the rendered grid followed by per-activity action buttons.
func (b *Bot) sendDayView(ctx context.Context, chatID int64, user *model.User, date string) error {
	text, err := b.agendaSvc.DayGrid(ctx, user, date)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't build the day view: %s", escape(err.Error())))
	}

	bucket, err := b.activitySvc.DayBucket(ctx, user, date)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load activities: %s", escape(err.Error())))
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, act := range bucket {
		if act.Completed {
			continue
		}
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", act.ID, shortTitle(act.Title, 20)), fmt.Sprintf("%s%d", cbCompletePrefix, act.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("%s%d", cbDeletePrefix, act.ID)),
		})
	}
	if len(buttons) > 0 {
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err = b.api.Send(reply)
	return err
}

func (b *Bot) handleWeek(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.agendaSvc.WeekOverview(ctx, user, schedule.FormatDate(time.Now()))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build the week overview: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleUpcoming(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.agendaSvc.UpcomingDigest(ctx, user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't list upcoming activities: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleUrgent(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.agendaSvc.UrgentDigest(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't list the urgent backlog: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.agendaSvc.DailyReport(ctx, user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build the report: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	payload, err := b.exportSvc.Export(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Export failed: %s", escape(err.Error())))
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  "calendar.ics",
		Bytes: payload,
	})
	doc.Caption = "📤 Your calendar as iCalendar."
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	activityID, err := idArgument(msg)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Tell me the activity id: /complete 12")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	act, err := b.activitySvc.Complete(ctx, user, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Activity not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	log.Printf("[info] activity completed id=%d user=%d", act.ID, user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ \"%s\" is done.", escape(act.Title)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	activityID, err := idArgument(msg)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Tell me the activity id: /delete 12")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	act, err := b.activitySvc.Get(ctx, user, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Activity not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	if err := b.activitySvc.Delete(ctx, user, activityID); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't delete the activity: %s", escape(err.Error())))
	}

	log.Printf("[info] activity deleted id=%d user=%d", act.ID, user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 \"%s\" removed.", escape(act.Title)))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		activityID, err := parseActivityID(data, cbCompletePrefix)
		if err != nil {
			return nil
		}
		return b.completeAndRefresh(ctx, cb.Message.Chat.ID, cb.From, activityID)
	case strings.HasPrefix(data, cbDeletePrefix):
		activityID, err := parseActivityID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(ctx, cb.Message.Chat.ID, cb.From, activityID)
	default:
		return nil
	}
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, activityID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	act, err := b.activitySvc.Get(ctx, user, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(chatID, "Activity not found.")
		}
		return err
	}

	text := fmt.Sprintf("Delete \"%s\" (#%d, %s %s–%s)?", escape(act.Title), act.ID, act.Date, act.StartTime, act.EndTime)
	b.setConfirmation(from.ID, confirmationRequest{activityID: act.ID, action: actionDelete})
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		if req.action == actionDelete {
			return b.deleteAndRefresh(ctx, msg.Chat.ID, msg.From, req.activityID)
		}
		return b.completeAndRefresh(ctx, msg.Chat.ID, msg.From, req.activityID)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel first.", confirmKeyboard())
	}
}

func (b *Bot) completeAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, activityID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	act, err := b.activitySvc.Get(ctx, user, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendTextWithRemove(chatID, "Activity not found or already removed.")
		}
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if act.Completed {
		return b.sendTextWithRemove(chatID, "Already done.")
	}

	act, err = b.activitySvc.Complete(ctx, user, activityID)
	if err != nil {
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	log.Printf("[info] activity completed id=%d user=%d", act.ID, user.ID)
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("✅ \"%s\" is done.", escape(act.Title))); err != nil {
		return err
	}
	return b.sendDayView(ctx, chatID, user, act.Date)
}

func (b *Bot) deleteAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, activityID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	act, err := b.activitySvc.Get(ctx, user, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendTextWithRemove(chatID, "Activity not found or already removed.")
		}
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	if err := b.activitySvc.Delete(ctx, user, activityID); err != nil {
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	log.Printf("[info] activity deleted id=%d user=%d", act.ID, user.ID)
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("🗑 \"%s\" removed.", escape(act.Title))); err != nil {
		return err
	}
	return b.sendDayView(ctx, chatID, user, act.Date)
}

// SendDailyReports sends the agenda report to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.agendaSvc.DailyReport(ctx, &user, now)
		if err != nil {
			log.Printf("build report for user %d: %v", user.TelegramID, err)
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send report to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNew):
		return true, b.startNewActivityConversation(ctx, msg)
	case strings.ToLower(menuLabelToday):
		return true, b.handleDay(ctx, msg, schedule.FormatDate(time.Now()))
	case strings.ToLower(menuLabelWeek):
		return true, b.handleWeek(ctx, msg)
	case strings.ToLower(menuLabelNext):
		return true, b.handleUpcoming(ctx, msg)
	case strings.ToLower(menuLabelUrgent):
		return true, b.handleUrgent(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Main menu")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	categories := b.activitySvc.Categories().All()
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(categories); i += 2 {
		row := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(categories[i].Label)}
		if i+1 < len(categories) {
			row = append(row, tgbotapi.NewKeyboardButton(categories[i+1].Label))
		}
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnCancelDialog),
	})
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNew),
			tgbotapi.NewKeyboardButton(menuLabelToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelWeek),
			tgbotapi.NewKeyboardButton(menuLabelNext),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelUrgent),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func idArgument(msg *tgbotapi.Message) (uint, error) {
	args := strings.TrimSpace(msg.CommandArguments())
	value, err := strconv.ParseUint(args, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parseActivityID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// resolveDateInput accepts an ISO date or the today/tomorrow shortcuts.
func resolveDateInput(text string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "today":
		return schedule.FormatDate(now), nil
	case "tomorrow":
		return schedule.FormatDate(now.AddDate(0, 0, 1)), nil
	}
	if _, err := schedule.ParseDate(strings.TrimSpace(text)); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// categoryIDFromLabel maps keyboard labels back to category ids; raw ids are
// accepted too, anything else keeps the text and resolves to the default
// downstream.
func categoryIDFromLabel(text string, categories *model.CategorySet) string {
	trimmed := strings.TrimSpace(text)
	for _, c := range categories.All() {
		if strings.EqualFold(trimmed, c.Label) || strings.EqualFold(trimmed, c.ID) {
			return c.ID
		}
	}
	return trimmed
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel input"
}

func escape(s string) string {
	return html.EscapeString(s)
}
