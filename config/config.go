package config

import (
	log2 "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/insikex/safeguard/common"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/stevenroose/gonfig"
)

type Params struct {
	Address string `id:"address" short:"a" default:"0.0.0.0:8080" desc:"Portal listening address"`
	Config  string `id:"config" short:"c" default:"$HOME/.config/safeguard" desc:"Safeguard configuration directory"`

	BotToken string `id:"bot-token" desc:"Telegram bot token"`
	WebURL   string `id:"web-url" default:"http://localhost:8080" desc:"Public base URL of the verification portal"`

	VerificationTimeout     int `id:"verification-timeout" default:"120" desc:"Seconds a new member has to complete verification"`
	MaxVerificationAttempts int `id:"max-verification-attempts" default:"3" desc:"Wrong answers allowed before the member is kicked"`

	CryptoBotToken   string `id:"cryptobot-token" desc:"Crypto Pay API token"`
	CryptoBotTestnet bool   `id:"cryptobot-testnet"`
	PakasirProject   string `id:"pakasir-project" desc:"Pakasir project slug"`
	PakasirAPIKey    string `id:"pakasir-api-key"`

	LogLevel        string `id:"log-level" default:"info" desc:"Optional values: trace, debug, info, warn or error"`
	LogFile         string `id:"log-file" desc:"The path of log file"`
	LogMaxDays      int64  `id:"log-max-days" default:"3" desc:"Maximum number of days to keep log files"`
	LogDisableColor bool   `id:"log-disable-color"`
}

var params Params

func initFunc() {
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "SAFEGUARD_",
	})
	if err != nil {
		if !strings.HasPrefix(err.Error(), "unexpected word while parsing flags: '-test.") {
			log2.Fatal(err)
		}
	}
	// replace all dots of the filename with underlines
	params.Config = filepath.Join(
		filepath.Dir(params.Config),
		strings.ReplaceAll(filepath.Base(params.Config), ".", "_"),
	)
	// expand '~' with user home
	params.Config, err = common.HomeExpand(params.Config)
	if err != nil {
		log2.Fatal(err)
	}
	params.LogFile, err = common.HomeExpand(params.LogFile)
	if err != nil {
		log2.Fatal(err)
	}
	if strings.Contains(params.Config, "$HOME") {
		if h, err := os.UserHomeDir(); err == nil {
			params.Config = strings.ReplaceAll(params.Config, "$HOME", h)
		}
	}
	if err := os.MkdirAll(params.Config, 0700); err != nil {
		log2.Fatal(err)
	}
	logWay := "console"
	if params.LogFile != "" {
		logWay = "file"
	}
	log.InitLog(logWay, params.LogFile, params.LogLevel, params.LogMaxDays, params.LogDisableColor)
	db.InitDB(params.Config)
}

var once sync.Once

func GetConfig() *Params {
	once.Do(initFunc)
	return &params
}
