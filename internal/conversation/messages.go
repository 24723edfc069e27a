package conversation

import (
	"fmt"
	"strings"

	"github.com/uzulab/soudanin/internal/schedule"
)

const (
	messageProcessingFailure = "Sorry, something went wrong while handling your message. Please try again."
	messageNoAvailability    = "Unfortunately there are no free time slots in the next few days. Can I help you with anything else?"

	messageSlotOfferHeader = "I can set up a video call to discuss this in more detail. Here are the available time slots:"
	messageSlotOfferFooter = "Please reply with the number of the slot that works for you."
)

func slotOfferMessage(slots []schedule.Slot) string {
	lines := make([]string, 0, len(slots)+4)
	lines = append(lines, messageSlotOfferHeader, "")
	for i, slot := range slots {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, slot.Label))
	}
	lines = append(lines, "", messageSlotOfferFooter)
	return strings.Join(lines, "\n")
}

func selectionRetryMessage(slotCount int) string {
	return fmt.Sprintf("I didn't catch a slot number. Please reply with a number between 1 and %d, or say so if none of the offered times work.", slotCount)
}

func bookingConfirmation(slot schedule.Slot, joinLink string) string {
	return fmt.Sprintf("Great, I have booked the meeting for %s. Here is the link to join: %s", slot.Label, joinLink)
}

func staticGreeting(topic string) string {
	return fmt.Sprintf("Hello! I'm a consultant specializing in %s. How can I help you today?", topic)
}

func meetingTitle(topic string) string {
	return fmt.Sprintf("Consultation: %s", topic)
}

func meetingDescription(topic string) string {
	return fmt.Sprintf("Video consultation on %s", topic)
}
