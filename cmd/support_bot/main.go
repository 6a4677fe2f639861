package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/authctx"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/model"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/repository"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	godotenv.Load()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	if dbHost == "" {
		dbHost = "db"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	dsn := "host=" + dbHost + " port=" + dbPort + " user=" + os.Getenv("DB_USER") +
		" password=" + os.Getenv("DB_PASS") + " dbname=" + os.Getenv("DB_NAME") + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	assignmentService := service.NewAssignmentService(tripRepo)

	supportToken := os.Getenv("SUPPORT_BOT_TOKEN")
	if supportToken == "" {
		log.Fatal("Не указан токен бота поддержки (SUPPORT_BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(supportToken)
	if err != nil {
		log.Fatal("Ошибка инициализации support бота:", err)
	}
	log.Printf("Запущен бот поддержки %s", bot.Self.UserName)

	// Фоновая рассылка: новые ожидающие заявки уходят подписанным агентам.
	// Уведомление - только приглашение: закрепление выполняет /claim тем же
	// атомарным условным обновлением, что и веб-интерфейс, поэтому гонка
	// между агентами в боте и на сайте безопасна.
	notified := make(map[int]bool)
	go func() {
		for {
			trips, err := tripRepo.ListClaimable()
			if err != nil {
				log.Printf("Ошибка получения ожидающих заявок: %v", err)
				time.Sleep(30 * time.Second)
				continue
			}
			for _, trip := range trips {
				if notified[trip.ID] {
					continue
				}
				subscribers, err := subRepo.GetAllSubscriberTelegramIDs()
				if err != nil {
					log.Printf("Ошибка получения списка подписчиков: %v", err)
					break
				}
				for _, telegramID := range subscribers {
					if telegramID == 0 {
						continue
					}
					text := fmt.Sprintf("Новая заявка на сопровождение #%d: %s\nВзять: /claim %d", trip.ID, trip.Title, trip.ID)
					bot.Send(tgbotapi.NewMessage(telegramID, text))
				}
				notified[trip.ID] = true
			}
			time.Sleep(30 * time.Second)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID

		user, err := userRepo.GetByTelegramID(msg.From.ID)
		if err != nil {
			// незнакомый пользователь регистрируется путешественником
			newUser := &model.User{
				TelegramID: msg.From.ID,
				Username:   msg.From.UserName,
				FirstName:  msg.From.FirstName,
				LastName:   msg.From.LastName,
				Role:       "traveler",
			}
			id, createErr := userRepo.Create(newUser)
			if createErr != nil {
				log.Printf("Не удалось зарегистрировать пользователя: %v", createErr)
				continue
			}
			newUser.ID = id
			user = newUser
		}
		if user.Role != authctx.RoleSupport {
			bot.Send(tgbotapi.NewMessage(chatID, "Бот доступен только агентам поддержки."))
			continue
		}
		act := authctx.Actor{UserID: user.ID, Role: authctx.RoleSupport}

		if !msg.IsCommand() {
			bot.Send(tgbotapi.NewMessage(chatID, "Команды: /claim <ID заявки>, /done <ID заявки>."))
			continue
		}
		switch msg.Command() {
		case "start":
			bot.Send(tgbotapi.NewMessage(chatID, "Оператор поддержки на связи. Подписка на заявки: /subscribe"))
		case "subscribe":
			if err := subRepo.Subscribe(user.ID); err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Не удалось оформить подписку."))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, "Вы подписаны на уведомления о новых заявках."))
		case "unsubscribe":
			if err := subRepo.Unsubscribe(user.ID); err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Не удалось отменить подписку."))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, "Подписка отменена."))
		case "claim":
			tripID, convErr := strconv.Atoi(msg.CommandArguments())
			if convErr != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Использование: /claim <ID заявки>"))
				continue
			}
			if err := assignmentService.Claim(act, tripID); err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, claimFailureText(err)))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Заявка #%d закреплена за вами.", tripID)))
		case "done":
			tripID, convErr := strconv.Atoi(msg.CommandArguments())
			if convErr != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Использование: /done <ID заявки>"))
				continue
			}
			if err := assignmentService.Complete(act, tripID); err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, claimFailureText(err)))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Заявка #%d завершена.", tripID)))
		case "pending":
			trips, err := tripRepo.ListClaimable()
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Ошибка получения списка заявок."))
				continue
			}
			if len(trips) == 0 {
				bot.Send(tgbotapi.NewMessage(chatID, "Ожидающих заявок нет."))
				continue
			}
			text := "Ожидающие заявки:\n"
			for _, trip := range trips {
				text += fmt.Sprintf("#%d %s\n", trip.ID, trip.Title)
			}
			bot.Send(tgbotapi.NewMessage(chatID, text))
		default:
			bot.Send(tgbotapi.NewMessage(chatID, "Неизвестная команда."))
		}
	}
}

// claimFailureText превращает типизированную ошибку в ответ оператору.
func claimFailureText(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindConflict:
		return "Не получилось: " + err.Error()
	case apperr.KindNotFound:
		return "Заявка не найдена."
	case apperr.KindUnauthorized:
		return "Заявка закреплена за другим агентом."
	default:
		return "Внутренняя ошибка, попробуйте позже."
	}
}
