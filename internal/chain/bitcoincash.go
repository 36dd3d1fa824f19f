package chain

func init() {
	// Bitcoin Cash Mainnet. Legacy Base58 addresses share Bitcoin's version bytes.
	Register(&Params{
		Symbol:  "BCH",
		Name:    "Bitcoin Cash",
		Network: Mainnet,

		PubKeyHashAddrID: 0x00,
		ScriptHashAddrID: 0x05,
		CashAddrPrefix:   "bitcoincash",

		SupportedFormats: []Format{FormatCashAddr, FormatP2PKH},
		DefaultFormat:    FormatCashAddr,

		ForkID: true,
	})

	// Bitcoin Cash Testnet
	Register(&Params{
		Symbol:  "BCH",
		Name:    "Bitcoin Cash Testnet",
		Network: Testnet,

		PubKeyHashAddrID: 0x6F,
		ScriptHashAddrID: 0xC4,
		CashAddrPrefix:   "bchtest",

		SupportedFormats: []Format{FormatCashAddr, FormatP2PKH},
		DefaultFormat:    FormatCashAddr,

		ForkID: true,
	})
}
