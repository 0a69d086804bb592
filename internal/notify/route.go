package notify

// Channel delivery medium.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

// Route sends one audience of an event over the listed channels.
type Route struct {
	Audience Audience
	InApp    bool
	Email    bool
}

// routes is the fixed routing table. An event kind missing here, or with no routes,
// is delivered nowhere.
var routes = map[Kind][]Route{
	KindDonationCreated: {
		{Audience: AudienceDonor, InApp: true, Email: true},
		{Audience: AudienceFoodbank, InApp: true, Email: true},
	},
	KindDonationFoodbankAssigned: {
		{Audience: AudienceFoodbank, InApp: true, Email: true},
	},
	KindDonationStatusChanged: {
		{Audience: AudienceFoodbank, InApp: true, Email: true},
	},
	KindDonationCompleted: {
		{Audience: AudienceDonor, InApp: true},
	},
	KindDonationRequestCreated: {
		{Audience: AudienceDonor, InApp: true, Email: true},
		{Audience: AudienceFoodbank, InApp: true, Email: true},
	},
	KindDonationRequestStatusChanged: {
		{Audience: AudienceFoodbank, InApp: true, Email: true},
		{Audience: AudienceDonor, InApp: true},
	},
	KindRequestFBCreated: {
		{Audience: AudienceRecipient, InApp: true, Email: true},
		{Audience: AudienceFoodbank, InApp: true, Email: true},
	},
	KindRequestFBStatusChanged: {
		{Audience: AudienceRecipient, InApp: true, Email: true},
	},
	KindRequestFBFulfilled: {
		{Audience: AudienceRecipient, InApp: true, Email: true},
		{Audience: AudienceDonor, InApp: true},
	},
	KindFeedbackReceived: {
		{Audience: AudienceReceiver, InApp: true, Email: true},
	},
	KindUserStatusChanged: nil,
}

// RoutesFor returns the routes of an event kind.
func RoutesFor(kind Kind) []Route {
	return routes[kind]
}
