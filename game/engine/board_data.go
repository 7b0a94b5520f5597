package engine

// Color groups
const (
	GroupBrown     = "brown"
	GroupLightBlue = "light_blue"
	GroupPink      = "pink"
	GroupOrange    = "orange"
	GroupRed       = "red"
	GroupYellow    = "yellow"
	GroupGreen     = "green"
	GroupDarkBlue  = "dark_blue"
)

type spaceDef struct {
	name      string
	kind      SpaceKind
	price     int
	group     string
	houseCost int
	rents     [6]int
	tax       int
}

// classicLayout is the standard board, index 0 (GO) through 39 (Boardwalk)
var classicLayout = [BoardSize]spaceDef{
	{name: "GO", kind: KindGo},
	{name: "Mediterranean Avenue", kind: KindProperty, price: 60, group: GroupBrown, houseCost: 50, rents: [6]int{2, 10, 30, 90, 160, 250}},
	{name: "Community Chest", kind: KindCommunityChest},
	{name: "Baltic Avenue", kind: KindProperty, price: 60, group: GroupBrown, houseCost: 50, rents: [6]int{4, 20, 60, 180, 320, 450}},
	{name: "Income Tax", kind: KindTax, tax: 200},
	{name: "Reading Railroad", kind: KindRailroad, price: 200},
	{name: "Oriental Avenue", kind: KindProperty, price: 100, group: GroupLightBlue, houseCost: 50, rents: [6]int{6, 30, 90, 270, 400, 550}},
	{name: "Chance", kind: KindChance},
	{name: "Vermont Avenue", kind: KindProperty, price: 100, group: GroupLightBlue, houseCost: 50, rents: [6]int{6, 30, 90, 270, 400, 550}},
	{name: "Connecticut Avenue", kind: KindProperty, price: 120, group: GroupLightBlue, houseCost: 50, rents: [6]int{8, 40, 100, 300, 450, 600}},
	{name: "Jail", kind: KindJail},
	{name: "St. Charles Place", kind: KindProperty, price: 140, group: GroupPink, houseCost: 100, rents: [6]int{10, 50, 150, 450, 625, 750}},
	{name: "Electric Company", kind: KindUtility, price: 150},
	{name: "States Avenue", kind: KindProperty, price: 140, group: GroupPink, houseCost: 100, rents: [6]int{10, 50, 150, 450, 625, 750}},
	{name: "Virginia Avenue", kind: KindProperty, price: 160, group: GroupPink, houseCost: 100, rents: [6]int{12, 60, 180, 500, 700, 900}},
	{name: "Pennsylvania Railroad", kind: KindRailroad, price: 200},
	{name: "St. James Place", kind: KindProperty, price: 180, group: GroupOrange, houseCost: 100, rents: [6]int{14, 70, 200, 550, 750, 950}},
	{name: "Community Chest", kind: KindCommunityChest},
	{name: "Tennessee Avenue", kind: KindProperty, price: 180, group: GroupOrange, houseCost: 100, rents: [6]int{14, 70, 200, 550, 750, 950}},
	{name: "New York Avenue", kind: KindProperty, price: 200, group: GroupOrange, houseCost: 100, rents: [6]int{16, 80, 220, 600, 800, 1000}},
	{name: "Free Parking", kind: KindFreeParking},
	{name: "Kentucky Avenue", kind: KindProperty, price: 220, group: GroupRed, houseCost: 150, rents: [6]int{18, 90, 250, 700, 875, 1050}},
	{name: "Chance", kind: KindChance},
	{name: "Indiana Avenue", kind: KindProperty, price: 220, group: GroupRed, houseCost: 150, rents: [6]int{18, 90, 250, 700, 875, 1050}},
	{name: "Illinois Avenue", kind: KindProperty, price: 240, group: GroupRed, houseCost: 150, rents: [6]int{20, 100, 300, 750, 925, 1100}},
	{name: "B. & O. Railroad", kind: KindRailroad, price: 200},
	{name: "Atlantic Avenue", kind: KindProperty, price: 260, group: GroupYellow, houseCost: 150, rents: [6]int{22, 110, 330, 800, 975, 1150}},
	{name: "Ventnor Avenue", kind: KindProperty, price: 260, group: GroupYellow, houseCost: 150, rents: [6]int{22, 110, 330, 800, 975, 1150}},
	{name: "Water Works", kind: KindUtility, price: 150},
	{name: "Marvin Gardens", kind: KindProperty, price: 280, group: GroupYellow, houseCost: 150, rents: [6]int{24, 120, 360, 850, 1025, 1200}},
	{name: "Go To Jail", kind: KindGoToJail},
	{name: "Pacific Avenue", kind: KindProperty, price: 300, group: GroupGreen, houseCost: 200, rents: [6]int{26, 130, 390, 900, 1100, 1275}},
	{name: "North Carolina Avenue", kind: KindProperty, price: 300, group: GroupGreen, houseCost: 200, rents: [6]int{26, 130, 390, 900, 1100, 1275}},
	{name: "Community Chest", kind: KindCommunityChest},
	{name: "Pennsylvania Avenue", kind: KindProperty, price: 320, group: GroupGreen, houseCost: 200, rents: [6]int{28, 150, 450, 1000, 1200, 1400}},
	{name: "Short Line", kind: KindRailroad, price: 200},
	{name: "Chance", kind: KindChance},
	{name: "Park Place", kind: KindProperty, price: 350, group: GroupDarkBlue, houseCost: 200, rents: [6]int{35, 175, 500, 1100, 1300, 1500}},
	{name: "Luxury Tax", kind: KindTax, tax: 100},
	{name: "Boardwalk", kind: KindProperty, price: 400, group: GroupDarkBlue, houseCost: 200, rents: [6]int{50, 200, 600, 1400, 1700, 2000}},
}
