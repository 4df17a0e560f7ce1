package model

const (
	BucketGroup        = "group"
	BucketMember       = "member"
	BucketVerification = "verification"
	BucketStatistic    = "statistic"
	BucketBotUser      = "bot_user"
	BucketSubscription = "subscription"
	BucketInvoice      = "invoice"
)
