package classify

// ErrorLabel is the sentinel dependencia carried by failed classifications.
const ErrorLabel = "Error"

// Dependency is one of the ICETEX offices a petition can be routed to.
type Dependency struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dependencies lists the twelve ICETEX offices eligible to receive a petition.
var Dependencies = []Dependency{
	{
		Name:        "Oficina Asesora Jurídica",
		Description: "Legal interpretation, contracts, administrative law, litigation, disciplinary processes",
	},
	{
		Name:        "Oficina Asesora de Planeación",
		Description: "Strategic planning, institutional performance, indicators, process optimization",
	},
	{
		Name:        "Oficina Asesora de Comunicaciones",
		Description: "Institutional communications, public relations, press releases, brand reputation",
	},
	{
		Name:        "Oficina de Riesgos",
		Description: "Risk management, operational risk, compliance with internal control systems",
	},
	{
		Name:        "Oficina de Control Interno",
		Description: "Audits, internal oversight, compliance, anti-corruption plans",
	},
	{
		Name:        "Oficina de Relaciones Internacionales",
		Description: "International scholarships, cooperation programs, partnerships abroad",
	},
	{
		Name:        "Oficina Comercial y de Mercadeo",
		Description: "Promotion of products, user acquisition, advertising, customer service",
	},
	{
		Name:        "Vicepresidencia de Crédito y Cobranza",
		Description: "Credit granting, collection, loan management, payment agreements",
	},
	{
		Name:        "Vicepresidencia de Operaciones y Tecnología",
		Description: "Systems management, IT infrastructure, platform maintenance",
	},
	{
		Name:        "Vicepresidencia Financiera",
		Description: "Treasury, accounting, financial management, budget control",
	},
	{
		Name:        "Vicepresidencia de Fondos en Administración",
		Description: "Management of special education funds, forgiveness (condonación) processes, verification of fund regulations",
	},
	{
		Name:        "Secretaría General",
		Description: "Contractual management, records, administrative coordination, HR, disciplinary support",
	},
}
