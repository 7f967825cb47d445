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

	"taskboard/internal/classify"
	"taskboard/internal/config"
	"taskboard/internal/model"
	"taskboard/internal/priority"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/symbol"
	"taskboard/internal/timetrack"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stagePriority
	stageMetricsChoice
	stageFinancial
	stageQuantity
	stageTime
	stageDeadline
	stageEstimate
)

const (
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"
	cbTrackPrefix    = "track:"
)

const (
	btnSkip         = "⏭️ 略過"
	btnYes          = "是"
	btnNo           = "否"
	btnConfirm      = "✅ 確認"
	btnCancel       = "↩️ 取消"
	btnCancelDialog = "⏪ 取消輸入"

	btnPriorityHigh   = "🔴 高"
	btnPriorityMedium = "🟡 中"
	btnPriorityLow    = "🟢 低"

	menuLabelNewTask = "➕ 新任務"
	menuLabelTasks   = "📋 任務清單"
	menuLabelToday   = "⏱ 今日統計"
	menuLabelHelp    = "ℹ️ 說明"
)

type conversationState struct {
	stage       conversationStage
	wantMetrics bool
	input       service.TaskInput
}

type confirmationAction int

const (
	actionComplete confirmationAction = iota
	actionDelete
)

type confirmationRequest struct {
	taskID string
	action confirmationAction
}

// Bot aggregates the Telegram API with the services behind it.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	taskSvc       *service.TaskService
	trackSvc      *service.TimetrackService
	reminderSvc   *service.ReminderService
	reportSvc     *service.ReportService
	config        *config.Config
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

func New(token string, userRepo *repository.UserRepository, taskSvc *service.TaskService, trackSvc *service.TimetrackService, reminderSvc *service.ReminderService, reportSvc *service.ReportService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		taskSvc:       taskSvc,
		trackSvc:      trackSvc,
		reminderSvc:   reminderSvc,
		reportSvc:     reportSvc,
		config:        cfg,
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
		return b.sendText(msg.Chat.ID, "⏪ 已取消目前的輸入，隨時可以重新開始。")
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

	return b.sendText(msg.Chat.ID, "我還看不懂這則訊息。輸入 /newtask 建立任務，或 /help 查看指令。")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "newtask":
		return b.startNewTaskConversation(ctx, msg)
	case "tasks":
		return b.handleListTasks(ctx, msg)
	case "focus":
		return b.handleFocusList(ctx, msg)
	case "complete":
		return b.handleComplete(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "track":
		return b.handleTrack(ctx, msg)
	case "stop":
		return b.handleStop(ctx, msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "digest":
		return b.handleDigest(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ 已取消目前的輸入。")
	default:
		return b.sendText(msg.Chat.ID, "不支援這個指令，請輸入 /help 查看清單。")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "朋友"
	}

	text := fmt.Sprintf(
		"👋 嗨，%s！\n<b>我是任務分級助理：幫你判斷每件事值不值得現在做。</b>\n\n指令：\n"+
			"• /newtask — 建立新任務（含層級判定）\n"+
			"• /tasks — 依緊急程度分組的任務清單\n"+
			"• /focus — 依優先分數排序的清單\n"+
			"• /track &lt;編號&gt; — 開始計時\n"+
			"• /stop — 結束計時\n"+
			"• /today — 今日時間統計\n"+
			"• /report — 匯出本週 Excel 報表\n"+
			"• /digest — 立即收到今日任務總覽\n"+
			"• /cancel — 取消目前的輸入\n\n"+
			"每天 %s 我會主動送出任務總覽，%s 自動結算當日工時。",
		escape(name), b.config.ReportTime, b.config.WorkdayEnd,
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>使用說明</b>\n" +
		"• /newtask — 逐步建立任務；填入量化貢獻度可獲得更準的層級\n" +
		"• /tasks — 🔥 立即處理 / ⚡ 今日建議完成 / 📅 本週安排 / 💡 可延後處理\n" +
		"• /focus — 依 0-100 優先分數排序\n" +
		"• /complete &lt;編號&gt; — 完成任務（編號取前 8 碼即可）\n" +
		"• /delete &lt;編號&gt; — 刪除任務\n" +
		"• /track &lt;編號&gt; — 開始計時；換任務會自動結算上一段\n" +
		"• /stop — 結束計時並回報剩餘時間預算\n" +
		"• /today — 今日已投入時間與各層級佔比\n" +
		"• /report — 匯出本週工作明細 Excel\n" +
		"• /cancel — 取消目前的輸入"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 建立新任務。\n<b>第 1 步：</b>任務名稱是什麼？", cancelKeyboard())
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
			return b.sendWithReplyMarkup(msg.Chat.ID, "任務名稱不能是空的，再輸入一次。", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ 補充任務說明（或按「略過」）。", skipKeyboard())

	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		state.stage = stagePriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "🚦 這件事的重要程度？", priorityKeyboard())

	case stagePriority:
		priorityValue, ok := parsePriorityInput(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "請選「高」「中」或「低」。", priorityKeyboard())
		}
		state.input.Priority = priorityValue
		state.stage = stageMetricsChoice
		return b.sendWithReplyMarkup(msg.Chat.ID, "📊 要填寫量化貢獻度嗎？（金額／數量／時間，至少一項）\n填了可以得到更準確的層級判定。", yesNoKeyboard())

	case stageMetricsChoice:
		switch {
		case isYesInput(text):
			state.wantMetrics = true
			state.stage = stageFinancial
			return b.sendWithReplyMarkup(msg.Chat.ID, "💰 預期金額貢獻？例如「預計帶來 50萬元 營收」（或按「略過」）。", skipKeyboard())
		case isNoInput(text):
			state.wantMetrics = false
			state.stage = stageDeadline
			return b.askDeadline(msg.Chat.ID)
		default:
			return b.sendWithReplyMarkup(msg.Chat.ID, "請按「是」或「否」。", yesNoKeyboard())
		}

	case stageFinancial:
		if !isSkipInput(text) {
			if result := b.validateMetricInput(text); result != "" {
				return b.sendWithReplyMarkup(msg.Chat.ID, result, skipKeyboard())
			}
			state.input.FinancialText = text
		}
		state.stage = stageQuantity
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔢 預期數量貢獻？例如「增加 1000 個用戶」（或按「略過」）。", skipKeyboard())

	case stageQuantity:
		if !isSkipInput(text) {
			if result := b.validateMetricInput(text); result != "" {
				return b.sendWithReplyMarkup(msg.Chat.ID, result, skipKeyboard())
			}
			state.input.QuantityText = text
		}
		state.stage = stageTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏳ 預期時間貢獻？例如「每週節省 10 小時」（或按「略過」）。", skipKeyboard())

	case stageTime:
		if !isSkipInput(text) {
			if result := b.validateMetricInput(text); result != "" {
				return b.sendWithReplyMarkup(msg.Chat.ID, result, skipKeyboard())
			}
			state.input.TimeText = text
		}
		if state.wantMetrics {
			combined := classify.ValidateAtLeastOne(state.input.FinancialText, state.input.QuantityText, state.input.TimeText)
			if !combined.Valid {
				state.stage = stageFinancial
				return b.sendWithReplyMarkup(msg.Chat.ID, combined.Message+"\n從金額重新輸入。", skipKeyboard())
			}
		}
		state.stage = stageDeadline
		return b.askDeadline(msg.Chat.ID)

	case stageDeadline:
		if !isSkipInput(text) {
			parsed, err := time.ParseInLocation("2006-01-02", text, time.Local)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "看不懂這個日期，請用 <code>2026-09-15</code> 這種格式，或按「略過」。", skipKeyboard())
			}
			state.input.Deadline = &parsed
		}
		state.stage = stageEstimate
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏱ 預估要花幾分鐘？例如 90（或按「略過」）。", skipKeyboard())

	case stageEstimate:
		if !isSkipInput(text) {
			minutes, err := strconv.Atoi(text)
			if err != nil || minutes <= 0 {
				return b.sendWithReplyMarkup(msg.Chat.ID, "請輸入正整數分鐘數，例如 90，或按「略過」。", skipKeyboard())
			}
			state.input.EstimatedMinutes = minutes
		}
		err := b.finishTaskCreation(ctx, msg.From, state.input, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err

	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "對話已重置，請用 /newtask 重新開始。")
	}
}

func (b *Bot) askDeadline(chatID int64) error {
	return b.sendWithReplyMarkup(chatID, "⏰ 截止日期？格式 <code>2026-09-15</code>（或按「略過」）。", skipKeyboard())
}

// validateMetricInput returns the rejection message for a bad quantitative
// input, or "" when the text passes.
func (b *Bot) validateMetricInput(text string) string {
	result := classify.ValidateField(text)
	if result.Valid {
		return ""
	}
	return result.Message
}

func (b *Bot) finishTaskCreation(ctx context.Context, from *tgbotapi.User, input service.TaskInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, warning, err := b.taskSvc.CreateTask(ctx, user, input)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("任務儲存失敗：%s", escape(err.Error())))
	}

	var summary strings.Builder
	summary.WriteString("✅ <b>任務已建立</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>編號：</b>%s\n", shortID(task.ID)))
	summary.WriteString(fmt.Sprintf("• <b>名稱：</b>%s\n", escape(task.Title)))
	summary.WriteString(fmt.Sprintf("• <b>層級：</b>%s\n", task.Tier.String()))
	if sym, ok := symbol.ByID(task.SymbolID); ok {
		summary.WriteString(fmt.Sprintf("• <b>符號：</b>%s\n", escape(sym.Name)))
	}
	summary.WriteString(fmt.Sprintf("• <b>優先分數：</b>%d（%s）\n", task.PriorityScore, priority.LevelFor(task.PriorityScore).Code))
	if task.Deadline != nil {
		summary.WriteString(fmt.Sprintf("• <b>截止：</b>%s\n", task.Deadline.Format("2006-01-02")))
	}
	if task.EstimatedMinutes > 0 {
		summary.WriteString(fmt.Sprintf("• <b>預估：</b>%s\n", timetrack.FormatMinutes(task.EstimatedMinutes)))
	}
	if warning != "" {
		summary.WriteString("\n" + escape(warning) + "\n")
	}

	reply := tgbotapi.NewMessage(chatID, strings.TrimSpace(summary.String()))
	reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	reply.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(reply); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, user)
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendTaskList(ctx, msg.Chat.ID, user)
}

// sendTaskList renders the bucketed view with per-task inline buttons.
func (b *Bot) sendTaskList(ctx context.Context, chatID int64, user *model.User) error {
	grouped, err := b.taskSvc.GroupedByBucket(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("讀取任務失敗：%s", escape(err.Error())))
	}

	now := time.Now()
	var text strings.Builder
	var rows [][]tgbotapi.InlineKeyboardButton
	total := 0

	for _, bucket := range priority.Buckets {
		tasks := grouped[bucket]
		if len(tasks) == 0 {
			continue
		}
		text.WriteString(fmt.Sprintf("<b>%s</b>（%s）\n", bucket.Label(), bucket.Description()))
		for i := range tasks {
			task := &tasks[i]
			total++
			score := priority.Score(task, now)
			text.WriteString(fmt.Sprintf("%s <code>%s</code> %s [%d]\n", task.Tier.String(), shortID(task.ID), escape(task.Title), score))
			text.WriteString(fmt.Sprintf("   └ %s\n", priority.Reason(task, now)))

			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ "+shortTitle(task.Title, 12), cbCompletePrefix+task.ID),
				tgbotapi.NewInlineKeyboardButtonData("⏱", cbTrackPrefix+task.ID),
				tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
			))
		}
		text.WriteByte('\n')
	}

	if total == 0 {
		return b.sendText(chatID, "目前沒有待辦任務。用 /newtask 建立第一件吧！")
	}

	reply := tgbotapi.NewMessage(chatID, strings.TrimSpace(text.String()))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = b.api.Send(reply)
	return err
}

// handleFocusList renders the flat score-sorted view with breakdowns.
func (b *Bot) handleFocusList(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	tasks, err := b.taskSvc.ListSorted(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("讀取任務失敗：%s", escape(err.Error())))
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "目前沒有待辦任務。")
	}

	var text strings.Builder
	text.WriteString("🎯 <b>優先順序</b>\n\n")
	for i := range tasks {
		task := &tasks[i]
		level := priority.LevelFor(task.PriorityScore)
		text.WriteString(fmt.Sprintf("%d. [%s·%d] %s\n", i+1, level.Code, task.PriorityScore, escape(task.Title)))
		text.WriteString(fmt.Sprintf("   %s · <code>%s</code>\n", task.Tier.String(), shortID(task.ID)))
	}

	return b.sendText(msg.Chat.ID, strings.TrimSpace(text.String()))
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	task, user, err := b.taskFromArgs(ctx, msg)
	if err != nil || task == nil {
		return err
	}

	if _, err := b.taskSvc.CompleteTask(ctx, user, task.ID); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("錯誤：%s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ 任務「%s」已完成。", escape(task.Title)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	task, user, err := b.taskFromArgs(ctx, msg)
	if err != nil || task == nil {
		return err
	}

	if err := b.taskSvc.DeleteTask(ctx, user, task.ID); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("刪除失敗：%s", escape(err.Error())))
	}
	log.Printf("[info] task deleted id=%s user=%s", task.ID, user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 任務「%s」已刪除。", escape(task.Title)))
}

func (b *Bot) handleTrack(ctx context.Context, msg *tgbotapi.Message) error {
	task, user, err := b.taskFromArgs(ctx, msg)
	if err != nil || task == nil {
		return err
	}
	return b.startTracking(ctx, msg.Chat.ID, user, task)
}

func (b *Bot) startTracking(ctx context.Context, chatID int64, user *model.User, task *model.Task) error {
	previous, err := b.trackSvc.Start(ctx, user, task)
	switch {
	case errors.Is(err, service.ErrPastEndOfDay):
		return b.sendText(chatID, "🌙 已過 18:30，今天的計時結束了，明天再繼續。")
	case errors.Is(err, service.ErrDayEnded):
		return b.sendText(chatID, "今天的工作紀錄已結算，無法再計時。")
	case err != nil:
		return b.sendText(chatID, fmt.Sprintf("計時失敗：%s", escape(err.Error())))
	}

	if _, err := b.taskSvc.StartTask(ctx, user, task.ID); err != nil && !errors.Is(err, service.ErrTaskNotStartable) {
		log.Printf("mark task in progress: %v", err)
	}

	var text strings.Builder
	if previous != nil {
		text.WriteString(fmt.Sprintf("⏹ 上一段「%s」已記錄 %s。\n", escape(previous.TaskTitle), timetrack.FormatMinutes(previous.DurationMinutes)))
	}
	text.WriteString(fmt.Sprintf("▶️ 開始計時「%s」（%s）。", escape(task.Title), task.Tier.String()))
	return b.sendText(chatID, text.String())
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	session, dayLog, err := b.trackSvc.Stop(ctx, user)
	if errors.Is(err, service.ErrNotTracking) {
		return b.sendText(msg.Chat.ID, "目前沒有進行中的計時。用 /track 開始。")
	}
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("結束計時失敗：%s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"⏹ 「%s」記錄 %s（午休已扣除）。\n今日剩餘時間預算：%s",
		escape(session.TaskTitle),
		timetrack.FormatMinutes(session.DurationMinutes),
		timetrack.FormatMinutes(dayLog.RemainingMinutes()),
	))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	summary, err := b.trackSvc.TodaySummary(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("讀取統計失敗：%s", escape(err.Error())))
	}

	var text strings.Builder
	text.WriteString("⏱ <b>今日時間統計</b>\n")
	text.WriteString(fmt.Sprintf("已投入 %s / %s，剩餘 %s\n\n",
		timetrack.FormatMinutes(summary.DayLog.UsedMinutes),
		timetrack.FormatMinutes(summary.DayLog.BudgetMinutes),
		timetrack.FormatMinutes(summary.DayLog.RemainingMinutes())))

	for _, share := range summary.Shares {
		text.WriteString(fmt.Sprintf("%s %s（%d%%）\n", share.Tier.String(), timetrack.FormatMinutesAsHours(share.Minutes), share.Percentage))
	}

	if running := b.trackSvc.Active(user.ID); running != nil {
		text.WriteString(fmt.Sprintf("\n▶️ 進行中：「%s」自 %s 起", escape(running.TaskTitle), running.StartedAt.Format("15:04")))
	}

	return b.sendText(msg.Chat.ID, strings.TrimSpace(text.String()))
}

func (b *Bot) handleDigest(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.reminderSvc.DailySummary(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("產生總覽失敗：%s", escape(err.Error())))
	}
	if text == "" {
		return b.sendText(msg.Chat.ID, "目前沒有待辦任務，今天可以輕鬆一點。")
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	data, filename, err := b.reportSvc.WeeklyReport(ctx, user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("產生報表失敗：%s", escape(err.Error())))
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = "📊 本週工作明細"
	_, err = b.api.Send(doc)
	return err
}

// taskFromArgs resolves the command argument as a task ID prefix against the
// user's open tasks. Nil task with nil error means the reply has already been
// sent.
func (b *Bot) taskFromArgs(ctx context.Context, msg *tgbotapi.Message) (*model.Task, *model.User, error) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return nil, nil, b.sendText(msg.Chat.ID, "請帶上任務編號，例如 /"+msg.Command()+" 1a2b3c4d（編號見 /tasks）。")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return nil, nil, err
	}

	tasks, err := b.taskSvc.ListSorted(ctx, user)
	if err != nil {
		return nil, nil, b.sendText(msg.Chat.ID, fmt.Sprintf("讀取任務失敗：%s", escape(err.Error())))
	}

	var matched *model.Task
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, args) {
			if matched != nil {
				return nil, nil, b.sendText(msg.Chat.ID, "這個編號對到多件任務，請輸入更長的前綴。")
			}
			matched = &tasks[i]
		}
	}
	if matched == nil {
		return nil, nil, b.sendText(msg.Chat.ID, "找不到這個編號的任務。")
	}
	return matched, user, nil
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil || cb.From == nil {
		return nil
	}

	ack := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Request(ack); err != nil {
		log.Printf("ack callback: %v", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	user, err := b.userRepo.UpsertFromTelegram(ctx, cb.From.ID, displayName(cb.From))
	if err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		taskID := strings.TrimPrefix(data, cbCompletePrefix)
		b.setConfirmation(cb.From.ID, confirmationRequest{taskID: taskID, action: actionComplete})
		return b.sendWithReplyMarkup(chatID, "確認要完成這件任務嗎？", confirmKeyboard())
	case strings.HasPrefix(data, cbDeletePrefix):
		taskID := strings.TrimPrefix(data, cbDeletePrefix)
		b.setConfirmation(cb.From.ID, confirmationRequest{taskID: taskID, action: actionDelete})
		return b.sendWithReplyMarkup(chatID, "確認要刪除這件任務嗎？刪除後無法復原。", confirmKeyboard())
	case strings.HasPrefix(data, cbTrackPrefix):
		taskID := strings.TrimPrefix(data, cbTrackPrefix)
		task, err := b.taskSvc.GetTask(ctx, user, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendText(chatID, "找不到這件任務，清單可能已過期。")
			}
			return err
		}
		return b.startTracking(ctx, chatID, user, task)
	default:
		return nil
	}
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return err
		}

		if req.action == actionDelete {
			task, err := b.taskSvc.GetTask(ctx, user, req.taskID)
			if err != nil {
				return b.sendTextWithRemove(msg.Chat.ID, "找不到這件任務。")
			}
			if err := b.taskSvc.DeleteTask(ctx, user, req.taskID); err != nil {
				return b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("刪除失敗：%s", escape(err.Error())))
			}
			if err := b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("🗑 任務「%s」已刪除。", escape(task.Title))); err != nil {
				return err
			}
			return b.sendTaskList(ctx, msg.Chat.ID, user)
		}

		task, err := b.taskSvc.CompleteTask(ctx, user, req.taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendTextWithRemove(msg.Chat.ID, "找不到這件任務。")
			}
			return b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("錯誤：%s", escape(err.Error())))
		}
		if err := b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("✅ 任務「%s」已完成。", escape(task.Title))); err != nil {
			return err
		}
		return b.sendTaskList(ctx, msg.Chat.ID, user)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "請按「確認」或「取消」。", confirmKeyboard())
	}
}

// SendDailyReports delivers the morning digest to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reminderSvc.DailySummary(ctx, &users[i])
		if err != nil {
			log.Printf("build digest for user %d: %v", users[i].TelegramID, err)
			continue
		}
		if text == "" {
			continue
		}
		if err := b.sendText(users[i].TelegramID, text); err != nil {
			log.Printf("send digest to %d: %v", users[i].TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(msg.Text)
	switch text {
	case menuLabelNewTask:
		return true, b.startNewTaskConversation(ctx, msg)
	case menuLabelTasks:
		return true, b.handleListTasks(ctx, msg)
	case menuLabelToday:
		return true, b.handleToday(ctx, msg)
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, displayName(from))
}

func displayName(from *tgbotapi.User) string {
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}
	return name
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
	msg := tgbotapi.NewMessage(chatID, "🔹 主選單")
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

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
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

func yesNoKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnYes),
			tgbotapi.NewKeyboardButton(btnNo),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPriorityHigh),
			tgbotapi.NewKeyboardButton(btnPriorityMedium),
			tgbotapi.NewKeyboardButton(btnPriorityLow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func parsePriorityInput(text string) (model.TaskPriority, bool) {
	switch strings.TrimSpace(text) {
	case btnPriorityHigh, "高", "high":
		return model.PriorityHigh, true
	case btnPriorityMedium, "中", "medium":
		return model.PriorityMedium, true
	case btnPriorityLow, "低", "low":
		return model.PriorityLow, true
	default:
		return "", false
	}
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "略過" || value == "skip"
}

func isYesInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == btnYes || value == "要" || value == "yes" || value == "y"
}

func isNoInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == btnNo || value == "不要" || value == "no" || value == "n" || value == "-"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "確認" || value == "是"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "取消"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "取消輸入" || value == "取消"
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

// shortID is the 8-character prefix shown in lists; commands accept any
// unambiguous prefix.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func escape(s string) string {
	return html.EscapeString(s)
}
