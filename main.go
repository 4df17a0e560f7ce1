package main

import (
	"time"

	"github.com/insikex/safeguard/bot"
	_ "github.com/insikex/safeguard/bot/command_handler"
	"github.com/insikex/safeguard/config"
	"github.com/insikex/safeguard/payment"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	"github.com/insikex/safeguard/verify"
	"github.com/insikex/safeguard/webserver/controller"
	"github.com/insikex/safeguard/webserver/router"
)

func main() {
	conf := config.GetConfig()

	b, err := bot.New(conf.BotToken, conf.WebURL, nil, verify.Options{
		DefaultTimeout:     time.Duration(conf.VerificationTimeout) * time.Second,
		DefaultMaxAttempts: conf.MaxVerificationAttempts,
	})
	if err != nil {
		log.Fatal("bot: %v", err)
	}
	b.CryptoPay = payment.NewCryptoPayClient(conf.CryptoBotToken, conf.CryptoBotTestnet)
	b.Pakasir = payment.NewPakasirClient(conf.PakasirProject, conf.PakasirAPIKey)

	controller.Init(b.Coordinator, func(userID int64, plan string) {
		user, err := service.GetBotUser(userID)
		if err != nil || user == nil {
			return
		}
		b.SendPremiumActivated(userID, user.Language, user.PremiumUntil)
	})
	go func() {
		if err := router.Run(); err != nil {
			log.Fatal("webserver: %v", err)
		}
	}()

	GoBackgrounds(b)

	log.Info("bot @%v is running", b.Bot.Me.Username)
	b.Start()
}
