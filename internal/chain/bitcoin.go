package chain

func init() {
	// Bitcoin Mainnet
	Register(&Params{
		Symbol:  "BTC",
		Name:    "Bitcoin",
		Network: Mainnet,

		// Mainnet address prefixes
		PubKeyHashAddrID: 0x00, // 1...
		ScriptHashAddrID: 0x05, // 3...
		Bech32HRP:        "bc",

		SupportedFormats: []Format{FormatBech32, FormatP2SHP2WPKH, FormatP2PKH, FormatP2WSH},
		DefaultFormat:    FormatBech32,
	})

	// Bitcoin Testnet (testnet3)
	Register(&Params{
		Symbol:  "BTC",
		Name:    "Bitcoin Testnet",
		Network: Testnet,

		// Testnet address prefixes
		PubKeyHashAddrID: 0x6F, // m or n
		ScriptHashAddrID: 0xC4, // 2...
		Bech32HRP:        "tb",

		SupportedFormats: []Format{FormatBech32, FormatP2SHP2WPKH, FormatP2PKH, FormatP2WSH},
		DefaultFormat:    FormatBech32,
	})
}
