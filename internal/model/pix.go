package model

// PIX API payloads. Field names follow the API's wire format.

type PixRequest struct {
	ValorTotal float64 `json:"valorTotal"`
	ChavePix   string  `json:"chavePix"`
}

type PixResponse struct {
	QRCodeImage string  `json:"qrCodeImage"`
	CobData     CobData `json:"cobData"`
}

type CobData struct {
	Calendario         Calendario `json:"calendario"`
	TxID               string     `json:"txid"`
	Revisao            int        `json:"revisao"`
	Loc                Loc        `json:"loc"`
	Location           string     `json:"location"`
	Status             string     `json:"status"`
	Valor              Valor      `json:"valor"`
	Chave              string     `json:"chave"`
	SolicitacaoPagador string     `json:"solicitacaoPagador"`
	PixCopiaECola      string     `json:"pixCopiaECola"`
}

type Calendario struct {
	Criacao   string `json:"criacao"`
	Expiracao int    `json:"expiracao"`
}

type Loc struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
	TipoCob  string `json:"tipoCob"`
}

type Valor struct {
	Original string `json:"original"`
}
