package domain

const (
	WalletTypeCash    = "cash"
	WalletTypeBank    = "bank"
	WalletTypeEWallet = "ewallet"
	WalletTypeOther   = "other"
)

const (
	EventWalletBalance = "wallet.balance"
)
