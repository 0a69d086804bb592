package notify

import "fmt"

// Message rendered text for one audience.
type Message struct {
	Title   string
	Content string
}

// Render builds the text an audience sees for an event.
func Render(e Event, a Audience) Message {
	goods := fmt.Sprintf("%d %s", e.Quantity, e.GoodsType)

	switch e.Kind {
	case KindDonationCreated:
		if a == AudienceFoodbank {
			return Message{"New Donation", fmt.Sprintf("A new donation of %s has been assigned to your foodbank.", goods)}
		}
		return Message{"Donation Received", fmt.Sprintf("Your donation of %s has been recorded. Thank you!", goods)}

	case KindDonationFoodbankAssigned:
		return Message{"Donation Assigned", fmt.Sprintf("Donation %s (%s) has been assigned to your foodbank.", e.SubjectID, goods)}

	case KindDonationStatusChanged:
		return Message{"Donation Status Updated", fmt.Sprintf("The status of donation %s is now %s.", e.SubjectID, e.Status)}

	case KindDonationCompleted:
		return Message{"Donation Completed", fmt.Sprintf("Your donation %s has been marked as completed.", e.SubjectID)}

	case KindDonationRequestCreated:
		if a == AudienceFoodbank {
			return Message{"Donation Request Sent", fmt.Sprintf("Your request for %s has been sent to the donor.", goods)}
		}
		return Message{"New Donation Request", fmt.Sprintf("A foodbank has requested %s from you.", goods)}

	case KindDonationRequestStatusChanged:
		if a == AudienceDonor {
			return Message{"Donation Request Updated", fmt.Sprintf("The donation request for %s is now %s.", e.GoodsType, e.Status)}
		}
		return Message{"Donation Request Status Updated", donationRequestStatusText(e)}

	case KindRequestFBCreated:
		if a == AudienceFoodbank {
			return Message{"New Recipient Request", fmt.Sprintf("A recipient has requested %s.", goods)}
		}
		return Message{"Request Submitted", fmt.Sprintf("Your request for %s has been submitted.", goods)}

	case KindRequestFBStatusChanged:
		return Message{"Request Status Updated", fmt.Sprintf("Your request has been %s.", e.Status)}

	case KindRequestFBFulfilled:
		if a == AudienceDonor {
			return Message{"Donation Allocated", "Your donation has been allocated to a recipient request."}
		}
		return Message{"Request Fulfilled", fmt.Sprintf("Your request for %s has been fulfilled.", goods)}

	case KindFeedbackReceived:
		return Message{"New Feedback", fmt.Sprintf("You have received new feedback rated %d/5.", e.Rating)}
	}
	return Message{"Notification", "You have a new notification."}
}

func donationRequestStatusText(e Event) string {
	switch e.Status {
	case "approved":
		return fmt.Sprintf("Your donation request for %s has been approved!", e.GoodsType)
	case "rejected":
		return fmt.Sprintf("Unfortunately, your donation request for %s has been rejected.", e.GoodsType)
	default:
		return "The status of your donation request has been updated."
	}
}
