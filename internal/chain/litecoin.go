package chain

func init() {
	// Litecoin Mainnet
	Register(&Params{
		Symbol:  "LTC",
		Name:    "Litecoin",
		Network: Mainnet,

		// Mainnet address prefixes
		PubKeyHashAddrID: 0x30, // L...
		ScriptHashAddrID: 0x32, // M...
		Bech32HRP:        "ltc",

		SupportedFormats: []Format{FormatBech32, FormatP2SHP2WPKH, FormatP2PKH, FormatP2WSH},
		DefaultFormat:    FormatBech32,
	})

	// Litecoin Testnet
	Register(&Params{
		Symbol:  "LTC",
		Name:    "Litecoin Testnet",
		Network: Testnet,

		PubKeyHashAddrID: 0x6F, // m or n
		ScriptHashAddrID: 0x3A, // Q...
		Bech32HRP:        "tltc",

		SupportedFormats: []Format{FormatBech32, FormatP2SHP2WPKH, FormatP2PKH, FormatP2WSH},
		DefaultFormat:    FormatBech32,
	})
}
