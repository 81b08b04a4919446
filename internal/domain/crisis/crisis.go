// Package crisis defines the eight scripted crises and the fixed
// preparation actions each role can take against them.
package crisis

import (
	"math/rand"

	"github.com/kingdom-crisis/server/internal/domain/role"
)

// Crisis identifies one of the eight scripted kingdom crises.
type Crisis string

const (
	FamineCascade            Crisis = "famine_cascade"
	PandemicSurge            Crisis = "pandemic_surge"
	InvasionRebellion        Crisis = "invasion_rebellion"
	CultUprising             Crisis = "cult_uprising"
	EnvironmentalCatastrophe Crisis = "environmental_catastrophe"
	CropBlight               Crisis = "crop_blight"
	EconomicCollapse         Crisis = "economic_collapse"
	SupernaturalRift         Crisis = "supernatural_rift"
)

// All lists every crisis, in a fixed order so seeded assignment is
// reproducible.
var All = []Crisis{
	FamineCascade,
	PandemicSurge,
	InvasionRebellion,
	CultUprising,
	EnvironmentalCatastrophe,
	CropBlight,
	EconomicCollapse,
	SupernaturalRift,
}

// Valid reports whether c is one of the eight crises.
func Valid(c Crisis) bool {
	for _, k := range All {
		if k == c {
			return true
		}
	}
	return false
}

// Assign picks one of the eight crises uniformly at random.
func Assign(rng *rand.Rand) Crisis {
	return All[rng.Intn(len(All))]
}

// Level is the cost/effect band of a preparation action.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// PreparationAction is one move from the fixed role × crisis table.
// Contribution is the base amount it adds to the crisis preparation
// score before investment adjustments.
type PreparationAction struct {
	ID           string
	Name         string
	Crisis       Crisis
	Role         role.Role
	Level        Level
	Cost         map[role.Resource]int
	Contribution float64
}

// Every role's table follows the same cost pattern: the role's primary
// resource at 30/20/10 plus a crisis-specific secondary at 20/15/10,
// with contributions 0.8/0.6/0.4.
var (
	primaryCosts   = [3]int{30, 20, 10}
	secondaryCosts = [3]int{20, 15, 10}
	contributions  = [3]float64{0.8, 0.6, 0.4}
	levels         = [3]Level{LevelHigh, LevelMedium, LevelLow}
)

func triple(r role.Role, c Crisis, primary, secondary role.Resource, ids, names [3]string) []PreparationAction {
	out := make([]PreparationAction, 3)
	for i := range out {
		out[i] = PreparationAction{
			ID:     ids[i],
			Name:   names[i],
			Crisis: c,
			Role:   r,
			Level:  levels[i],
			Cost: map[role.Resource]int{
				primary:   primaryCosts[i],
				secondary: secondaryCosts[i],
			},
			Contribution: contributions[i],
		}
	}
	return out
}

// preparations holds all 72 actions keyed by role then crisis.
var preparations = map[role.Role]map[Crisis][]PreparationAction{
	role.King: {
		FamineCascade: triple(role.King, FamineCascade, role.Treasury, role.FoodReserves,
			[3]string{"king_famine_emergency_food", "king_famine_agricultural_investment", "king_famine_trade_embargo"},
			[3]string{"Emergency Food Distribution", "Agricultural Investment", "Trade Embargo Lifting"}),
		PandemicSurge: triple(role.King, PandemicSurge, role.Treasury, role.PublicTrust,
			[3]string{"king_pandemic_medical_infrastructure", "king_pandemic_quarantine_protocols", "king_pandemic_healer_recruitment"},
			[3]string{"Medical Infrastructure", "Quarantine Protocols", "Healer Recruitment"}),
		InvasionRebellion: triple(role.King, InvasionRebellion, role.Treasury, role.NobleSupport,
			[3]string{"king_invasion_military_funding", "king_invasion_defense_fortification", "king_invasion_diplomatic_outreach"},
			[3]string{"Military Funding", "Defense Fortification", "Diplomatic Outreach"}),
		CultUprising: triple(role.King, CultUprising, role.Treasury, role.PublicTrust,
			[3]string{"king_cult_religious_reforms", "king_cult_investigation", "king_cult_public_education"},
			[3]string{"Religious Reforms", "Cult Investigation", "Public Education"}),
		EnvironmentalCatastrophe: triple(role.King, EnvironmentalCatastrophe, role.Treasury, role.FoodReserves,
			[3]string{"king_environmental_disaster_preparedness", "king_environmental_evacuation_plans", "king_environmental_resource_stockpiling"},
			[3]string{"Disaster Preparedness", "Evacuation Plans", "Resource Stockpiling"}),
		CropBlight: triple(role.King, CropBlight, role.Treasury, role.FoodReserves,
			[3]string{"king_crop_seed_distribution", "king_crop_agricultural_research", "king_crop_farmer_support"},
			[3]string{"Seed Distribution", "Agricultural Research", "Farmer Support"}),
		EconomicCollapse: triple(role.King, EconomicCollapse, role.Treasury, role.NobleSupport,
			[3]string{"king_economic_reforms", "king_economic_market_stabilization", "king_economic_currency_devaluation"},
			[3]string{"Economic Reforms", "Market Stabilization", "Currency Devaluation"}),
		SupernaturalRift: triple(role.King, SupernaturalRift, role.Treasury, role.NobleSupport,
			[3]string{"king_supernatural_arcane_research", "king_supernatural_mystical_defenses", "king_supernatural_scholar_recruitment"},
			[3]string{"Arcane Research", "Mystical Defenses", "Scholar Recruitment"}),
	},
	role.Captain: {
		FamineCascade: triple(role.Captain, FamineCascade, role.PersonalFunds, role.SoldierCount,
			[3]string{"captain_famine_food_security", "captain_famine_supply_chain", "captain_famine_ration_management"},
			[3]string{"Food Security Operations", "Supply Chain Protection", "Ration Management"}),
		PandemicSurge: triple(role.Captain, PandemicSurge, role.PersonalFunds, role.Health,
			[3]string{"captain_pandemic_medical_security", "captain_pandemic_quarantine_enforcement", "captain_pandemic_health_monitoring"},
			[3]string{"Medical Security", "Quarantine Enforcement", "Health Monitoring"}),
		InvasionRebellion: triple(role.Captain, InvasionRebellion, role.PersonalFunds, role.SoldierCount,
			[3]string{"captain_invasion_defense_mobilization", "captain_invasion_fortress_reinforcement", "captain_invasion_patrol_intensification"},
			[3]string{"Defense Mobilization", "Fortress Reinforcement", "Patrol Intensification"}),
		CultUprising: triple(role.Captain, CultUprising, role.PersonalFunds, role.TroopLoyalty,
			[3]string{"captain_cult_infiltration", "captain_cult_religious_security", "captain_cult_surveillance_operations"},
			[3]string{"Cult Infiltration", "Religious Security", "Surveillance Operations"}),
		EnvironmentalCatastrophe: triple(role.Captain, EnvironmentalCatastrophe, role.PersonalFunds, role.SoldierCount,
			[3]string{"captain_environmental_disaster_response", "captain_environmental_evacuation_security", "captain_environmental_emergency_protocols"},
			[3]string{"Disaster Response", "Evacuation Security", "Emergency Protocols"}),
		CropBlight: triple(role.Captain, CropBlight, role.PersonalFunds, role.SoldierCount,
			[3]string{"captain_crop_agricultural_security", "captain_crop_farm_protection", "captain_crop_harvest_security"},
			[3]string{"Agricultural Security", "Farm Protection", "Harvest Security"}),
		EconomicCollapse: triple(role.Captain, EconomicCollapse, role.PersonalFunds, role.TroopLoyalty,
			[3]string{"captain_economic_security", "captain_economic_market_protection", "captain_economic_trade_security"},
			[3]string{"Economic Security", "Market Protection", "Trade Security"}),
		SupernaturalRift: triple(role.Captain, SupernaturalRift, role.PersonalFunds, role.TroopLoyalty,
			[3]string{"captain_supernatural_arcane_defense", "captain_supernatural_mystical_security", "captain_supernatural_monitoring"},
			[3]string{"Arcane Defense", "Mystical Security", "Supernatural Monitoring"}),
	},
	role.Spy: {
		FamineCascade: triple(role.Spy, FamineCascade, role.CovertFunds, role.CoverIdentity,
			[3]string{"spy_famine_sabotage_prevention", "spy_famine_supply_chain_intelligence", "spy_famine_agricultural_espionage"},
			[3]string{"Food Sabotage Prevention", "Supply Chain Intelligence", "Agricultural Espionage"}),
		PandemicSurge: triple(role.Spy, PandemicSurge, role.CovertFunds, role.Intelligence,
			[3]string{"spy_pandemic_biological_warfare_defense", "spy_pandemic_medical_intelligence", "spy_pandemic_health_surveillance"},
			[3]string{"Biological Warfare Defense", "Medical Intelligence", "Health Surveillance"}),
		InvasionRebellion: triple(role.Spy, InvasionRebellion, role.CovertFunds, role.NetworkContacts,
			[3]string{"spy_invasion_enemy_infiltration", "spy_invasion_military_intelligence", "spy_invasion_threat_assessment"},
			[3]string{"Enemy Infiltration", "Military Intelligence", "Threat Assessment"}),
		CultUprising: triple(role.Spy, CultUprising, role.CovertFunds, role.CoverIdentity,
			[3]string{"spy_cult_infiltration", "spy_cult_religious_intelligence", "spy_cult_supernatural_investigation"},
			[3]string{"Cult Infiltration", "Religious Intelligence", "Supernatural Investigation"}),
		EnvironmentalCatastrophe: triple(role.Spy, EnvironmentalCatastrophe, role.CovertFunds, role.Intelligence,
			[3]string{"spy_environmental_disaster_intelligence", "spy_environmental_espionage", "spy_environmental_crisis_monitoring"},
			[3]string{"Disaster Intelligence", "Environmental Espionage", "Crisis Monitoring"}),
		CropBlight: triple(role.Spy, CropBlight, role.CovertFunds, role.CoverIdentity,
			[3]string{"spy_crop_agricultural_sabotage_prevention", "spy_crop_farm_intelligence", "spy_crop_surveillance"},
			[3]string{"Agricultural Sabotage Prevention", "Farm Intelligence", "Crop Surveillance"}),
		EconomicCollapse: triple(role.Spy, EconomicCollapse, role.CovertFunds, role.NetworkContacts,
			[3]string{"spy_economic_sabotage_prevention", "spy_economic_financial_intelligence", "spy_economic_market_surveillance"},
			[3]string{"Economic Sabotage Prevention", "Financial Intelligence", "Market Surveillance"}),
		SupernaturalRift: triple(role.Spy, SupernaturalRift, role.CovertFunds, role.Intelligence,
			[3]string{"spy_supernatural_arcane_intelligence", "spy_supernatural_mystical_espionage", "spy_supernatural_surveillance"},
			[3]string{"Arcane Intelligence", "Mystical Espionage", "Supernatural Surveillance"}),
	},
}

// Preparations returns the three actions available to a role against a
// crisis. The returned slice is shared; callers must not mutate it.
func Preparations(r role.Role, c Crisis) []PreparationAction {
	return preparations[r][c]
}

// PreparationByID looks an action up across the role's whole table.
func PreparationByID(r role.Role, id string) (PreparationAction, bool) {
	for _, list := range preparations[r] {
		for _, a := range list {
			if a.ID == id {
				return a, true
			}
		}
	}
	return PreparationAction{}, false
}
