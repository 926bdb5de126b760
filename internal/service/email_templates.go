package service

import "fmt"

func welcomeEmailTemplate(name, setupURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Create a family for your home, or join one with the code a family member shared with you:
%s

Once you are in a family you can add doorbells and see who is at the door.

Best,
The %s Team`, name, setupURL, appName)

	return subject, body
}

func memberJoinedEmailTemplate(creatorName, memberName, familyName, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("%s joined %s", memberName, familyName)
	body := fmt.Sprintf(`Hi %s,

%s just joined your family "%s" using its join code. They can now see your doorbells and visitor activity.

Review your family: %s

If you don't recognize this person, keep your join code private.

Best,
The %s Team`, creatorName, memberName, familyName, dashboardURL, appName)

	return subject, body
}
