package store

// schemaSQL is the fixed relational schema. Referential structure only; all
// consistency logic lives in the service methods.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS roles (
    role_id INTEGER PRIMARY KEY,
    role_name VARCHAR,
    description TEXT
);

CREATE TABLE IF NOT EXISTS persons (
    person_id VARCHAR PRIMARY KEY,
    name VARCHAR,
    role_id INTEGER REFERENCES roles(role_id)
);

CREATE TABLE IF NOT EXISTS cases (
    case_id INTEGER PRIMARY KEY,
    title VARCHAR,
    description TEXT,
    status VARCHAR,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    resolved_at TIMESTAMP,
    closed_at TIMESTAMP,
    priority VARCHAR,
    created_by VARCHAR REFERENCES persons(person_id),
    assigned_to VARCHAR REFERENCES persons(person_id),
    resolved_by VARCHAR REFERENCES persons(person_id),
    closed_by VARCHAR REFERENCES persons(person_id)
);

CREATE TABLE IF NOT EXISTS persons_info (
    person_id VARCHAR REFERENCES persons(person_id),
    role TEXT,
    first_name VARCHAR,
    last_name VARCHAR,
    middle_name VARCHAR,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);

CREATE TABLE IF NOT EXISTS schedules (
    schedule_id VARCHAR PRIMARY KEY,
    case_id INTEGER REFERENCES cases(case_id),
    person_id VARCHAR REFERENCES persons(person_id),
    start_time TIMESTAMP,
    end_time TIMESTAMP,
    description TEXT,
    status TEXT
);

CREATE TABLE IF NOT EXISTS proceedings (
    proceeding_id BIGINT PRIMARY KEY,
    case_id INTEGER REFERENCES cases(case_id),
    start_time TIMESTAMP,
    end_time TIMESTAMP,
    date DATE,
    summary TEXT,
    content TEXT,
    people_count INTEGER,
    date_created TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    date_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    status VARCHAR
);

CREATE TABLE IF NOT EXISTS proceeding_participants (
    proceeding_id BIGINT REFERENCES proceedings(proceeding_id),
    person_id VARCHAR,
    name VARCHAR,
    role VARCHAR,
    PRIMARY KEY (proceeding_id, person_id)
);

CREATE TABLE IF NOT EXISTS proceeding_schedules (
    proceeding_id BIGINT REFERENCES proceedings(proceeding_id),
    schedule_id VARCHAR REFERENCES schedules(schedule_id),
    PRIMARY KEY (proceeding_id, schedule_id)
);

CREATE TABLE IF NOT EXISTS resolutions (
    resolution_id INTEGER PRIMARY KEY,
    case_id INTEGER REFERENCES cases(case_id),
    title VARCHAR,
    content TEXT,
    resolved_at TIMESTAMP
);
`
