package chain

func init() {
	// Dogecoin Mainnet - legacy only, no SegWit
	Register(&Params{
		Symbol:  "DOGE",
		Name:    "Dogecoin",
		Network: Mainnet,

		PubKeyHashAddrID: 0x1E, // D...
		ScriptHashAddrID: 0x16, // 9 or A

		SupportedFormats: []Format{FormatP2PKH},
		DefaultFormat:    FormatP2PKH,
	})

	// Dogecoin Testnet
	Register(&Params{
		Symbol:  "DOGE",
		Name:    "Dogecoin Testnet",
		Network: Testnet,

		PubKeyHashAddrID: 0x71, // n...
		ScriptHashAddrID: 0xC4,

		SupportedFormats: []Format{FormatP2PKH},
		DefaultFormat:    FormatP2PKH,
	})
}
