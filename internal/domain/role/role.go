// Package role defines the playable roles and their fixed data.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package role

import "math/rand"

// Role identifies one of the three playable roles.
type Role string

const (
	King    Role = "king"
	Captain Role = "captain"
	Spy     Role = "spy"
)

// All lists every playable role.
var All = []Role{King, Captain, Spy}

// Resource identifies a role-specific resource. Each role owns exactly
// four of these; operations on a resource outside the role's set are
// rejected by the engine.
type Resource string

const (
	// King
	Treasury     Resource = "treasury"
	FoodReserves Resource = "food_reserves"
	PublicTrust  Resource = "public_trust"
	NobleSupport Resource = "noble_support"

	// Captain
	PersonalFunds Resource = "personal_funds"
	Health        Resource = "health"
	TroopLoyalty  Resource = "troop_loyalty"
	SoldierCount  Resource = "soldier_count"

	// Spy
	CoverIdentity   Resource = "cover_identity"
	NetworkContacts Resource = "network_contacts"
	CovertFunds     Resource = "covert_funds"
	Intelligence    Resource = "intelligence"
)

// Tier is an evidence priority tier. Low items are plentiful and cheap,
// High items are scarce and gated to specific methods.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Secret is the personal secret attached to a role. Revealed state
// lives on the session, not here.
type Secret struct {
	ID          string
	Name        string
	Description string
}

// AcquisitionAction is a named resource acquisition move from the
// role's fixed table. Gains and costs may touch several resources;
// the engine applies them atomically.
type AcquisitionAction struct {
	ID            string
	Name          string
	Description   string
	Gain          map[Resource]int
	Cost          map[Resource]int
	Effectiveness float64
}

// InvestigationMethod is a role-specific way of drawing evidence.
// Access lists the tiers the method may draw from.
type InvestigationMethod struct {
	ID          string
	Name        string
	Description string
	Access      []Tier
	Reliability float64
	Cost        map[Resource]int
}

// Data is the complete immutable definition of a role.
type Data struct {
	Role        Role
	Name        string
	Description string
	Secret      Secret
	Starting    map[Resource]int
	Acquisition []AcquisitionAction
	Methods     []InvestigationMethod
}

// StartingValue is the initial amount of every role resource.
const StartingValue = 50

func starting(a, b, c, d Resource) map[Resource]int {
	return map[Resource]int{a: StartingValue, b: StartingValue, c: StartingValue, d: StartingValue}
}

// Registry contains the fixed data for all three roles.
var Registry = map[Role]Data{
	King: {
		Role:        King,
		Name:        "King",
		Description: "Supreme ruler, but dreams warn that prestige is declining",
		Secret: Secret{
			ID:          "blood_debt",
			Name:        "The Blood Debt",
			Description: "A wrong decree once sent an innocent family to the gallows",
		},
		Starting: starting(Treasury, FoodReserves, PublicTrust, NobleSupport),
		Acquisition: []AcquisitionAction{
			{ID: "king_tax_collection", Name: "Tax Collection",
				Description: "Raise the treasury at the cost of public trust",
				Gain:        map[Resource]int{Treasury: 20}, Cost: map[Resource]int{PublicTrust: 10}, Effectiveness: 0.8},
			{ID: "king_trade_negotiations", Name: "Trade Negotiations",
				Description: "Buy grain abroad, draining the treasury",
				Gain:        map[Resource]int{FoodReserves: 20}, Cost: map[Resource]int{Treasury: 15}, Effectiveness: 0.7},
			{ID: "king_resource_redistribution", Name: "Resource Redistribution",
				Description: "Spread a modest gain across every ledger",
				Gain:        map[Resource]int{Treasury: 10, FoodReserves: 10, PublicTrust: 10, NobleSupport: 10},
				Cost:        map[Resource]int{}, Effectiveness: 0.6},
			{ID: "king_royal_monopolies", Name: "Royal Monopolies",
				Description: "Seize trade for the crown, angering the commons",
				Gain:        map[Resource]int{Treasury: 25}, Cost: map[Resource]int{PublicTrust: 15}, Effectiveness: 0.7},
			{ID: "king_noble_tributes", Name: "Noble Tributes",
				Description: "Demand tribute from the great houses",
				Gain:        map[Resource]int{Treasury: 20}, Cost: map[Resource]int{NobleSupport: 10}, Effectiveness: 0.6},
		},
		Methods: []InvestigationMethod{
			{ID: "king_royal_surveys", Name: "Royal Surveys",
				Description: "Official reports from government officials",
				Access:      []Tier{TierLow, TierMedium}, Reliability: 0.3,
				Cost:        map[Resource]int{Treasury: 5}},
			{ID: "king_noble_consultations", Name: "Noble Consultations",
				Description: "Information from aristocracy and advisors",
				Access:      []Tier{TierMedium, TierHigh}, Reliability: 0.4,
				Cost:        map[Resource]int{NobleSupport: 5}},
		},
	},
	Captain: {
		Role:        Captain,
		Name:        "Captain",
		Description: "Experienced officer, but dreams show the army may be unprepared",
		Secret: Secret{
			ID:          "ghost_of_discipline",
			Name:        "The Ghost of Discipline",
			Description: "An execution ordered in haste took an innocent life",
		},
		Starting: starting(PersonalFunds, Health, TroopLoyalty, SoldierCount),
		Acquisition: []AcquisitionAction{
			{ID: "captain_personal_training", Name: "Personal Training",
				Description: "Drill at personal expense",
				Gain:        map[Resource]int{Health: 20}, Cost: map[Resource]int{PersonalFunds: 15}, Effectiveness: 0.8},
			{ID: "captain_equipment_procurement", Name: "Equipment Procurement",
				Description: "Arm more soldiers out of pocket",
				Gain:        map[Resource]int{SoldierCount: 20}, Cost: map[Resource]int{PersonalFunds: 15}, Effectiveness: 0.7},
			{ID: "captain_troop_recruitment", Name: "Troop Recruitment",
				Description: "Press recruits into service, straining morale",
				Gain:        map[Resource]int{SoldierCount: 20}, Cost: map[Resource]int{TroopLoyalty: 10}, Effectiveness: 0.6},
			{ID: "captain_military_contracts", Name: "Military Contracts",
				Description: "Sell the regiment's time for coin",
				Gain:        map[Resource]int{PersonalFunds: 25}, Cost: map[Resource]int{TroopLoyalty: 15}, Effectiveness: 0.7},
			{ID: "captain_mercenary_work", Name: "Mercenary Work",
				Description: "Dangerous side contracts for extra funds",
				Gain:        map[Resource]int{PersonalFunds: 20}, Cost: map[Resource]int{Health: 10}, Effectiveness: 0.6},
		},
		Methods: []InvestigationMethod{
			{ID: "captain_military_intelligence", Name: "Military Intelligence",
				Description: "Security reports and troop observations",
				Access:      []Tier{TierLow, TierMedium}, Reliability: 0.3,
				Cost:        map[Resource]int{PersonalFunds: 5}},
			{ID: "captain_security_assessments", Name: "Security Assessments",
				Description: "Threat analysis and vulnerability reports",
				Access:      []Tier{TierMedium, TierHigh}, Reliability: 0.4,
				Cost:        map[Resource]int{TroopLoyalty: 5}},
		},
	},
	Spy: {
		Role:        Spy,
		Name:        "Spy",
		Description: "Foreign agent living undercover, but dreams warn the secret may be exposed",
		Secret: Secret{
			ID:          "double_agent",
			Name:        "The Double Agent",
			Description: "Two masters, two sets of orders, one cover",
		},
		Starting: starting(CoverIdentity, NetworkContacts, CovertFunds, Intelligence),
		Acquisition: []AcquisitionAction{
			{ID: "spy_cover_maintenance", Name: "Cover Maintenance",
				Description: "Spend to keep the mask intact",
				Gain:        map[Resource]int{CoverIdentity: 20}, Cost: map[Resource]int{CovertFunds: 15}, Effectiveness: 0.8},
			{ID: "spy_network_expansion", Name: "Network Expansion",
				Description: "Buy new informants",
				Gain:        map[Resource]int{NetworkContacts: 20}, Cost: map[Resource]int{CovertFunds: 15}, Effectiveness: 0.7},
			{ID: "spy_intelligence_analysis", Name: "Intelligence Analysis",
				Description: "Burn contacts to refine raw reports",
				Gain:        map[Resource]int{Intelligence: 20}, Cost: map[Resource]int{NetworkContacts: 10}, Effectiveness: 0.6},
			{ID: "spy_black_market_deals", Name: "Black Market Deals",
				Description: "Risky trades that strain the cover",
				Gain:        map[Resource]int{CovertFunds: 25}, Cost: map[Resource]int{CoverIdentity: 15}, Effectiveness: 0.7},
			{ID: "spy_information_brokering", Name: "Information Brokering",
				Description: "Sell intelligence for operating funds",
				Gain:        map[Resource]int{CovertFunds: 20}, Cost: map[Resource]int{Intelligence: 10}, Effectiveness: 0.6},
		},
		Methods: []InvestigationMethod{
			{ID: "spy_covert_infiltration", Name: "Covert Infiltration",
				Description: "Secret information gathering",
				Access:      []Tier{TierMedium, TierHigh}, Reliability: 0.4,
				Cost:        map[Resource]int{CovertFunds: 5}},
			{ID: "spy_network_intelligence", Name: "Network Intelligence",
				Description: "Information from the spy network",
				Access:      []Tier{TierLow, TierMedium, TierHigh}, Reliability: 0.3,
				Cost:        map[Resource]int{NetworkContacts: 5}},
		},
	},
}

// Get returns the fixed data for a role.
func Get(r Role) (Data, bool) {
	d, ok := Registry[r]
	return d, ok
}

// AssignRole picks one of the three roles uniformly at random.
// It returns immutable role data only; the caller initializes the
// session's resource pool from Data.Starting.
func AssignRole(rng *rand.Rand) Data {
	return Registry[All[rng.Intn(len(All))]]
}

// Owns reports whether the resource belongs to the role's set.
func (d Data) Owns(res Resource) bool {
	_, ok := d.Starting[res]
	return ok
}

// AcquisitionByID finds an acquisition action in the role's table.
func (d Data) AcquisitionByID(id string) (AcquisitionAction, bool) {
	for _, a := range d.Acquisition {
		if a.ID == id {
			return a, true
		}
	}
	return AcquisitionAction{}, false
}

// MethodByID finds an investigation method in the role's table.
func (d Data) MethodByID(id string) (InvestigationMethod, bool) {
	for _, m := range d.Methods {
		if m.ID == id {
			return m, true
		}
	}
	return InvestigationMethod{}, false
}
