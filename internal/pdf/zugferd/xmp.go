package zugferd

import "fmt"

const xmpTemplate = "\ufeff<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n" +
	"<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n" +
	"  <rdf:RDF xmlns:rdf=\"http://www.w3.org/1999/02/22-rdf-syntax-ns#\">\n" +
	"    <rdf:Description rdf:about=\"\"\n" +
	"        xmlns:pdfaid=\"http://www.aiim.org/pdfa/ns/id/\">\n" +
	"      <pdfaid:part>3</pdfaid:part>\n" +
	"      <pdfaid:conformance>B</pdfaid:conformance>\n" +
	"    </rdf:Description>\n" +
	"    <rdf:Description rdf:about=\"\"\n" +
	"        xmlns:dc=\"http://purl.org/dc/elements/1.1/\">\n" +
	"      <dc:title>\n" +
	"        <rdf:Alt>\n" +
	"          <rdf:li xml:lang=\"x-default\">ZUGFeRD Invoice</rdf:li>\n" +
	"        </rdf:Alt>\n" +
	"      </dc:title>\n" +
	"    </rdf:Description>\n" +
	"    <rdf:Description rdf:about=\"\"\n" +
	"        xmlns:pdfaExtension=\"http://www.aiim.org/pdfa/ns/extension/\"\n" +
	"        xmlns:pdfaSchema=\"http://www.aiim.org/pdfa/ns/schema#\"\n" +
	"        xmlns:pdfaProperty=\"http://www.aiim.org/pdfa/ns/property#\">\n" +
	"      <pdfaExtension:schemas>\n" +
	"        <rdf:Bag>\n" +
	"          <rdf:li rdf:parseType=\"Resource\">\n" +
	"            <pdfaSchema:schema>Factur-X PDFA Extension Schema</pdfaSchema:schema>\n" +
	"            <pdfaSchema:namespaceURI>urn:factur-x:pdfa:CrossIndustryDocument:invoice:1p0#</pdfaSchema:namespaceURI>\n" +
	"            <pdfaSchema:prefix>fx</pdfaSchema:prefix>\n" +
	"            <pdfaSchema:property>\n" +
	"              <rdf:Seq>\n" +
	"                <rdf:li rdf:parseType=\"Resource\">\n" +
	"                  <pdfaProperty:name>DocumentFileName</pdfaProperty:name>\n" +
	"                  <pdfaProperty:valueType>Text</pdfaProperty:valueType>\n" +
	"                  <pdfaProperty:category>external</pdfaProperty:category>\n" +
	"                  <pdfaProperty:description>name of the embedded XML invoice file</pdfaProperty:description>\n" +
	"                </rdf:li>\n" +
	"                <rdf:li rdf:parseType=\"Resource\">\n" +
	"                  <pdfaProperty:name>DocumentType</pdfaProperty:name>\n" +
	"                  <pdfaProperty:valueType>Text</pdfaProperty:valueType>\n" +
	"                  <pdfaProperty:category>external</pdfaProperty:category>\n" +
	"                  <pdfaProperty:description>INVOICE</pdfaProperty:description>\n" +
	"                </rdf:li>\n" +
	"                <rdf:li rdf:parseType=\"Resource\">\n" +
	"                  <pdfaProperty:name>Version</pdfaProperty:name>\n" +
	"                  <pdfaProperty:valueType>Text</pdfaProperty:valueType>\n" +
	"                  <pdfaProperty:category>external</pdfaProperty:category>\n" +
	"                  <pdfaProperty:description>The actual version of the ZUGFeRD XML schema</pdfaProperty:description>\n" +
	"                </rdf:li>\n" +
	"                <rdf:li rdf:parseType=\"Resource\">\n" +
	"                  <pdfaProperty:name>ConformanceLevel</pdfaProperty:name>\n" +
	"                  <pdfaProperty:valueType>Text</pdfaProperty:valueType>\n" +
	"                  <pdfaProperty:category>external</pdfaProperty:category>\n" +
	"                  <pdfaProperty:description>The conformance level of the embedded ZUGFeRD data</pdfaProperty:description>\n" +
	"                </rdf:li>\n" +
	"              </rdf:Seq>\n" +
	"            </pdfaSchema:property>\n" +
	"          </rdf:li>\n" +
	"        </rdf:Bag>\n" +
	"      </pdfaExtension:schemas>\n" +
	"    </rdf:Description>\n" +
	"    <rdf:Description rdf:about=\"\"\n" +
	"        xmlns:fx=\"urn:factur-x:pdfa:CrossIndustryDocument:invoice:1p0#\">\n" +
	"      <fx:DocumentType>INVOICE</fx:DocumentType>\n" +
	"      <fx:DocumentFileName>factur-x.xml</fx:DocumentFileName>\n" +
	"      <fx:Version>1.0</fx:Version>\n" +
	"      <fx:ConformanceLevel>%s</fx:ConformanceLevel>\n" +
	"    </rdf:Description>\n" +
	"  </rdf:RDF>\n" +
	"</x:xmpmeta>\n" +
	"<?xpacket end=\"w\"?>"

// buildXMP renders the XMP metadata packet embedded alongside the invoice
// XML, declaring PDF/A-3 conformance and the Factur-X extension schema
// readers use to locate the attached XML.
func buildXMP(p Profile) []byte {
	return []byte(fmt.Sprintf(xmpTemplate, p.ConformanceLevel()))
}
