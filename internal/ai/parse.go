package ai

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

const (
	markerJSONOpen  = "###JSON###"
	markerJSONClose = "###ENDJSON###"
	markerAcaiMenu  = "###SEND_ACAI_MENU###"
	markerVitrine   = "###SEND_DAILY_VITRINE###"
)

var payloadRe = regexp.MustCompile(`(?s)###JSON###(.*?)###ENDJSON###`)

// formas de pagamento aceitas, já em title case
var validPayments = map[string]string{
	"pix":      "Pix",
	"dinheiro": "Dinheiro",
	"cartão":   "Cartão",
	"cartao":   "Cartão",
}

// rawCommand cobre todos os campos que o modelo pode emitir, sem
// discriminar ainda. A discriminação acontece em toCommand.
type rawCommand struct {
	Type    string     `json:"type"`
	Items   string     `json:"items"`
	Cart    []CartItem `json:"cart"`
	Total   float64    `json:"total"`
	Method  string     `json:"method"`
	Payment string     `json:"payment"`
	Address string     `json:"address"`

	OrderID    flexString `json:"orderId"`
	NewAddress string     `json:"newAddress"`
	NewItems   string     `json:"newItems"`
	NewTotal   *float64   `json:"newTotal"`

	Date        string `json:"date"`
	LoanedItems string `json:"loanedItems"`
	ReturnDate  string `json:"returnDate"`

	ID string `json:"id"`
}

// flexString aceita tanto "4590" quanto 4590 — o modelo alterna entre os dois.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
	}
	return nil
}

// ParseResponse aplica as regras de extração sobre o texto cru do modelo:
// payload entre sentinelas vira Command, marcadores sem payload viram flags,
// e tudo que foi reconhecido é removido do texto visível. Payload malformado
// descarta o comando e preserva o texto — nunca propaga erro.
func ParseResponse(raw string) Reply {
	text := raw
	var cmd *Command

	if m := payloadRe.FindStringSubmatch(raw); m != nil {
		text = strings.TrimSpace(strings.Replace(text, m[0], "", 1))

		var rc rawCommand
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &rc); err != nil {
			log.Println("[ai] payload JSON inválido, descartando comando:", err)
		} else {
			cmd = rc.toCommand()
		}
	}

	actions := Actions{}
	if strings.Contains(text, markerAcaiMenu) {
		actions.SendAcaiMenu = true
		text = strings.ReplaceAll(text, markerAcaiMenu, "")
	}
	if strings.Contains(text, markerVitrine) {
		actions.SendVitrine = true
		text = strings.ReplaceAll(text, markerVitrine, "")
	}

	return Reply{
		Text:    strings.TrimSpace(text),
		Command: cmd,
		Actions: actions,
	}
}

func (rc *rawCommand) toCommand() *Command {
	switch CommandKind(rc.Type) {
	case CmdCreateOrder:
		pay, ok := validPayments[strings.ToLower(strings.TrimSpace(rc.Payment))]
		if !ok {
			// pagamento inválido ("a combinar", "talvez"...) significa que o
			// pedido ainda não está pronto; fica só o texto perguntando
			log.Printf("[ai] pagamento %q fora de Pix/Dinheiro/Cartão, comando anulado", rc.Payment)
			return nil
		}
		return &Command{Kind: CmdCreateOrder, Create: &CreateOrder{
			Items:   rc.Items,
			Cart:    rc.Cart,
			Total:   rc.Total,
			Method:  rc.Method,
			Payment: pay,
			Address: rc.Address,
		}}

	case CmdUpdateOrder, CmdUpdateLastOrder:
		u := &UpdateOrder{
			OrderID:    string(rc.OrderID),
			NewAddress: rc.NewAddress,
			NewItems:   rc.NewItems,
		}
		if u.NewAddress == "" {
			u.NewAddress = rc.Address
		}
		if rc.NewTotal != nil {
			u.NewTotal = *rc.NewTotal
			u.HasTotal = true
		}
		return &Command{Kind: CommandKind(rc.Type), Update: u}

	case CmdScheduleOrder:
		return &Command{Kind: CmdScheduleOrder, Schedule: &ScheduleOrder{
			Items:       rc.Items,
			Total:       rc.Total,
			Date:        rc.Date,
			Method:      rc.Method,
			Address:     rc.Address,
			LoanedItems: rc.LoanedItems,
			ReturnDate:  rc.ReturnDate,
		}}

	case CmdSendImage:
		return &Command{Kind: CmdSendImage, Image: &SendImage{ProductID: rc.ID}}
	}

	log.Printf("[ai] tipo de comando desconhecido: %q", rc.Type)
	return nil
}
