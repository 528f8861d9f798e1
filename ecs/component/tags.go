package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CreatureTag struct{}

var CreatureTagComponent = NewComponent[CreatureTag]()

type ProjectileTag struct{}

var ProjectileTagComponent = NewComponent[ProjectileTag]()
